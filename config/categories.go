package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// CategoryConfig holds the category sets shown by the application. The
// browse sidebar and the create form historically carry different sets,
// so both are kept; matching against listings stays an exact string
// comparison either way.
type CategoryConfig struct {
	Browse []string `json:"browse"`
	Create []string `json:"create"`
}

// defaultCategories is used when no categories.json override is present.
var defaultCategories = CategoryConfig{
	Browse: []string{
		"Vehicles", "Property Rentals", "Apparel", "Classifieds",
		"Electronics", "Entertainment", "Family", "Free Stuff",
		"Garden & Outdoor", "Hobbies",
	},
	Create: []string{
		"Electronics", "Clothing", "Books", "Home", "Toys", "Food",
	},
}

var (
	categoryConfig = defaultCategories
	categoryLock   sync.RWMutex
	categoryPath   = "config/categories.json"
)

// LoadCategoryConfig loads the category override file if one exists.
// Missing file is not an error; the built-in sets stay in effect.
func LoadCategoryConfig() error {
	categoryLock.Lock()
	defer categoryLock.Unlock()

	absPath, err := filepath.Abs(categoryPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %v", err)
	}

	data, err := os.ReadFile(absPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read category config: %v", err)
	}

	var cfg CategoryConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse category config: %v", err)
	}

	if len(cfg.Browse) == 0 {
		cfg.Browse = defaultCategories.Browse
	}
	if len(cfg.Create) == 0 {
		cfg.Create = defaultCategories.Create
	}

	categoryConfig = cfg
	return nil
}

// GetBrowseCategories returns the categories offered as browse filters
func GetBrowseCategories() []string {
	categoryLock.RLock()
	defer categoryLock.RUnlock()

	browse := make([]string, len(categoryConfig.Browse))
	copy(browse, categoryConfig.Browse)
	return browse
}

// GetCreateCategories returns the categories offered on the create form
func GetCreateCategories() []string {
	categoryLock.RLock()
	defer categoryLock.RUnlock()

	create := make([]string, len(categoryConfig.Create))
	copy(create, categoryConfig.Create)
	return create
}

// IsCreateCategory reports whether name is one of the create-form
// categories
func IsCreateCategory(name string) bool {
	categoryLock.RLock()
	defer categoryLock.RUnlock()

	for _, cat := range categoryConfig.Create {
		if cat == name {
			return true
		}
	}
	return false
}
