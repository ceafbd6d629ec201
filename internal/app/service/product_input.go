package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

// FlexibleList accepts either a comma separated string ("S, M") or a JSON
// array (["S","M"]) and always holds the normalized form.
type FlexibleList []string

func (l *FlexibleList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*l = NormalizeList(strings.Split(raw, ","))
		return nil
	}

	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("expected a string or an array of strings: %w", err)
	}
	*l = NormalizeList(values)
	return nil
}

// NormalizeList trims every value, drops blanks and duplicates, and keeps
// the first-seen order. The result is never nil.
func NormalizeList(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ProductInput is the admin create payload.
type ProductInput struct {
	Name          string               `json:"name" validate:"required"`
	Description   string               `json:"description" validate:"required"`
	Price         decimal.Decimal      `json:"price" validate:"gt=0"`
	DiscountPrice decimal.NullDecimal  `json:"discountPrice" validate:"omitempty,gte=0"`
	CountInStock  int                  `json:"countInStock" validate:"gte=0"`
	SKU           string               `json:"sku" validate:"required"`
	Category      string               `json:"category" validate:"required"`
	Brand         string               `json:"brand"`
	Sizes         FlexibleList         `json:"sizes" validate:"min=1"`
	Colors        FlexibleList         `json:"colors" validate:"min=1"`
	Collections   string               `json:"collections" validate:"required"`
	Material      string               `json:"material"`
	Gender        string               `json:"gender" validate:"omitempty,oneof=Men Women Unisex"`
	Images        []model.ProductImage `json:"images" validate:"min=1"`
	IsFeatured    bool                 `json:"isFeatured"`
	IsPublished   bool                 `json:"isPublished"`
	Tags          FlexibleList         `json:"tags"`
	Weight        float64              `json:"weight" validate:"gte=0"`
}

// ProductUpdateInput is a partial update; nil fields keep their value.
type ProductUpdateInput struct {
	Name          *string              `json:"name"`
	Description   *string              `json:"description"`
	Price         *decimal.Decimal     `json:"price"`
	DiscountPrice *decimal.NullDecimal `json:"discountPrice"`
	CountInStock  *int                 `json:"countInStock"`
	SKU           *string              `json:"sku"`
	Category      *string              `json:"category"`
	Brand         *string              `json:"brand"`
	Sizes         *FlexibleList        `json:"sizes"`
	Colors        *FlexibleList        `json:"colors"`
	Collections   *string              `json:"collections"`
	Material      *string              `json:"material"`
	Gender        *string              `json:"gender"`
	Images        []model.ProductImage `json:"images"`
	IsFeatured    *bool                `json:"isFeatured"`
	IsPublished   *bool                `json:"isPublished"`
	Tags          *FlexibleList        `json:"tags"`
	Weight        *float64             `json:"weight"`
}

var productValidator = newProductValidator()

func newProductValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// money fields compare as numbers
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		switch d := field.Interface().(type) {
		case decimal.Decimal:
			f, _ := d.Float64()
			return f
		case decimal.NullDecimal:
			if !d.Valid {
				return nil
			}
			f, _ := d.Decimal.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{}, decimal.NullDecimal{})
	return v
}

// Validate checks the payload and returns ErrInvalidProduct naming the
// first offending field.
func (in *ProductInput) Validate() error {
	if err := productValidator.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return ErrInvalidProduct.WithMessage(validationMessage(verrs[0]))
		}
		return ErrInvalidProduct.Wrap(err)
	}
	for i, img := range in.Images {
		if strings.TrimSpace(img.URL) == "" {
			return ErrInvalidProduct.WithMessage(fmt.Sprintf("images[%d].url is required", i))
		}
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fe.Field() + " must not be empty"
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "gte":
		return fe.Field() + " must not be negative"
	case "oneof":
		return fe.Field() + " must be one of " + fe.Param()
	}
	return fe.Field() + " is invalid"
}

// Product builds a new catalog entry owned by the creating admin.
func (in *ProductInput) Product(ownerID uint) *model.Product {
	return &model.Product{
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Price:         in.Price,
		DiscountPrice: in.DiscountPrice,
		CountInStock:  in.CountInStock,
		SKU:           strings.TrimSpace(in.SKU),
		Category:      in.Category,
		Brand:         in.Brand,
		Sizes:         NormalizeList(in.Sizes),
		Colors:        NormalizeList(in.Colors),
		Collections:   in.Collections,
		Material:      in.Material,
		Gender:        model.Gender(in.Gender),
		Images:        in.Images,
		IsFeatured:    in.IsFeatured,
		IsPublished:   in.IsPublished,
		Tags:          NormalizeList(in.Tags),
		Weight:        in.Weight,
		UserID:        ownerID,
	}
}

// inputFromProduct lets an updated product go through the create rules.
func inputFromProduct(p *model.Product) *ProductInput {
	return &ProductInput{
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		CountInStock:  p.CountInStock,
		SKU:           p.SKU,
		Category:      p.Category,
		Brand:         p.Brand,
		Sizes:         p.Sizes,
		Colors:        p.Colors,
		Collections:   p.Collections,
		Material:      p.Material,
		Gender:        string(p.Gender),
		Images:        p.Images,
		IsFeatured:    p.IsFeatured,
		IsPublished:   p.IsPublished,
		Tags:          p.Tags,
		Weight:        p.Weight,
	}
}

// Apply copies every non-nil field onto p.
func (in *ProductUpdateInput) Apply(p *model.Product) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.DiscountPrice != nil {
		p.DiscountPrice = *in.DiscountPrice
	}
	if in.CountInStock != nil {
		p.CountInStock = *in.CountInStock
	}
	if in.SKU != nil {
		p.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Brand != nil {
		p.Brand = *in.Brand
	}
	if in.Sizes != nil {
		p.Sizes = NormalizeList(*in.Sizes)
	}
	if in.Colors != nil {
		p.Colors = NormalizeList(*in.Colors)
	}
	if in.Collections != nil {
		p.Collections = *in.Collections
	}
	if in.Material != nil {
		p.Material = *in.Material
	}
	if in.Gender != nil {
		p.Gender = model.Gender(*in.Gender)
	}
	if in.Images != nil {
		p.Images = in.Images
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
	if in.IsPublished != nil {
		p.IsPublished = *in.IsPublished
	}
	if in.Tags != nil {
		p.Tags = NormalizeList(*in.Tags)
	}
	if in.Weight != nil {
		p.Weight = *in.Weight
	}
}
