package httpapi

import "github.com/thomhuang/happycamper/internal/model"

type registerReq struct {
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Street     string `json:"street" validate:"max=200"`
	City       string `json:"city" validate:"max=100"`
	Region     string `json:"region" validate:"max=100"`
	PostalCode string `json:"postal_code" validate:"required,numeric,len=5"`
	Phone      string `json:"phone" validate:"max=30"`
	Email      string `json:"email" validate:"required,email,max=254"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type searchQuery struct {
	Center     string  `query:"center" validate:"required,numeric,len=5"`
	Miles      float64 `query:"miles" validate:"required,gt=0"`
	Start      string  `query:"start" validate:"required,datetime=2006-01-02"`
	End        string  `query:"end" validate:"required,datetime=2006-01-02"`
	CategoryID int64   `query:"category_id"`
	BrandID    int64   `query:"brand_id"`
}

type listingReq struct {
	CategoryID   int64   `json:"category_id" validate:"required,gt=0"`
	BrandID      int64   `json:"brand_id" validate:"required"`
	NewBrandName string  `json:"new_brand_name" validate:"max=100"`
	Model        string  `json:"model" validate:"required,max=200"`
	Condition    string  `json:"condition" validate:"max=200"`
	Description  string  `json:"description" validate:"max=2000"`
	PricePerDay  float64 `json:"price_per_day" validate:"gte=0"`
	AvailStart   string  `json:"avail_start" validate:"required,datetime=2006-01-02"`
	AvailEnd     string  `json:"avail_end" validate:"required,datetime=2006-01-02"`
	ImageURL     string  `json:"image_url" validate:"omitempty,url"`

	Specs *model.Specs `json:"specs"`
}

type rentReq struct {
	Start string `json:"start" validate:"required,datetime=2006-01-02"`
	End   string `json:"end" validate:"required,datetime=2006-01-02"`
}

type rateReq struct {
	SubmissionID string `json:"submission_id" validate:"required,uuid"`
	Target       string `json:"target" validate:"required,oneof=owner renter product"`
	Stars        int    `json:"stars" validate:"required,min=1,max=4"`
	Comments     string `json:"comments" validate:"max=1000"`
}
