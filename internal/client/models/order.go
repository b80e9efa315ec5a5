package models

// Order is the order form. Images are local file paths; at least one is
// required. Price is decimal text as entered.
type Order struct {
	Name        string   `form:"name" validate:"required"`
	Address     string   `form:"address" validate:"required"`
	Details     string   `form:"details"`
	PhoneNumber string   `form:"phoneNumber" validate:"required"`
	Price       string   `form:"price" validate:"required,price"`
	Images      []string `form:"images" validate:"min=1,dive,required"`
}

// OrderImage is a loaded image ready to upload.
type OrderImage struct {
	FileName    string
	ContentType string
	Data        []byte
}
