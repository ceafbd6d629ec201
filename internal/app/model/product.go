package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Gender string

const (
	GenderMen    Gender = "Men"
	GenderWomen  Gender = "Women"
	GenderUnisex Gender = "Unisex"
)

type ProductImage struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
}

type Product struct {
	ID            uint                `gorm:"primarykey" json:"id"`
	Name          string              `gorm:"not null" json:"name"`
	Description   string              `gorm:"type:text;not null" json:"description"`
	Price         decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"price"`
	DiscountPrice decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"discountPrice"`
	CountInStock  int                 `gorm:"not null;default:0" json:"countInStock"`
	SKU           string              `gorm:"column:sku;uniqueIndex;not null" json:"sku"`
	Category      string              `gorm:"index;not null" json:"category"`
	Brand         string              `json:"brand"`
	Sizes         []string            `gorm:"type:text;serializer:json" json:"sizes"`
	Colors        []string            `gorm:"type:text;serializer:json" json:"colors"`
	Collections   string              `gorm:"not null" json:"collections"`
	Material      string              `json:"material"`
	Gender        Gender              `gorm:"type:varchar(10)" json:"gender,omitempty"`
	Images        []ProductImage      `gorm:"type:text;serializer:json" json:"images"`
	IsFeatured    bool                `gorm:"default:false" json:"isFeatured"`
	IsPublished   bool                `gorm:"default:false" json:"isPublished"`
	Rating        float64             `gorm:"default:0" json:"rating"`
	NumReviews    int                 `gorm:"default:0" json:"numReviews"`
	Sales         int                 `gorm:"default:0" json:"sales"`
	Tags          []string            `gorm:"type:text;serializer:json" json:"tags,omitempty"`
	Weight        float64             `json:"weight,omitempty"`
	UserID        uint                `gorm:"index" json:"user"` // admin who created it
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

func (Product) TableName() string {
	return "products"
}

// PrimaryImage is the image captured on a cart line, empty if none.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}
