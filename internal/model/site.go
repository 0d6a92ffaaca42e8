package model

import "time"

const DefaultSiteName = "NextStep Guidance"

type SocialLink struct {
	ID         string    `db:"id"`
	Platform   string    `db:"platform"`
	URL        string    `db:"url"`
	IconName   *string   `db:"icon_name"`
	IsActive   bool      `db:"is_active"`
	OrderIndex int       `db:"order_index"`
	CreatedAt  time.Time `db:"created_at"`
}

// SiteConfig is a singleton row.
type SiteConfig struct {
	ID         string    `db:"id"`
	SiteName   string    `db:"site_name"`
	MobileNo   *string   `db:"mobile_no"`
	WhatsappNo *string   `db:"whatsapp_no"`
	Address    *string   `db:"address"`
	Email      *string   `db:"email"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type FAQ struct {
	ID         string    `db:"id"`
	Question   string    `db:"question"`
	Answer     string    `db:"answer"`
	IsActive   bool      `db:"is_active"`
	OrderIndex int       `db:"order_index"`
	CreatedAt  time.Time `db:"created_at"`
}

type Testimonial struct {
	ID         string    `db:"id"`
	ClientName string    `db:"client_name"`
	ClientRole *string   `db:"client_role"`
	Content    string    `db:"content"`
	Rating     *int      `db:"rating"`
	IsFeatured bool      `db:"is_featured"`
	OrderIndex int       `db:"order_index"`
	CreatedAt  time.Time `db:"created_at"`
}

// HomeContent is everything the marketing page reads.
type HomeContent struct {
	FAQs         []*FAQ
	Testimonials []*Testimonial
	SocialLinks  []*SocialLink
	Config       *SiteConfig
}
