package models

// ContactMessage is the payload relayed to a seller through the mail
// relay. ToEmail and ListingTitle come from the listing record, never
// from the caller.
type ContactMessage struct {
	ToEmail      string `json:"to_email"`
	ListingID    string `json:"listing_id"`
	ListingTitle string `json:"listing_title"`
	ReplyTo      string `json:"reply_to,omitempty"`
	Message      string `json:"message"`
}

// ContactRequest is the user-supplied part of a contact form submission.
type ContactRequest struct {
	Message string `json:"message" binding:"required"`
	ReplyTo string `json:"reply_to"`
}
