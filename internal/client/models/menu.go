package models

import "github.com/fastbite/fastbite/internal/client/backend"

// Category is a menu section, e.g. "Burgers".
type Category struct {
	ID          string
	Name        string
	Description string
}

// Customization is an orderable extra: a topping, a side, a size.
type Customization struct {
	ID    string
	Name  string
	Price float64
	Type  string
}

// MenuItem is a single orderable dish. Customizations are linked through
// MenuItemCustomization records, not embedded.
type MenuItem struct {
	ID          string
	Name        string
	Description string
	ImageURL    string
	Price       float64
	Rating      float64
	Calories    int
	Protein     int
}

// MenuItemCustomization links a menu item to a customization. One record
// exists per (item, customization) pair.
type MenuItemCustomization struct {
	ID              string
	MenuID          string
	CustomizationID string
}

// CategoryFromDocument maps a categories-collection document. Absent fields
// come back zero-valued; categories are display data, not identity, so the
// mapping here is permissive.
func CategoryFromDocument(doc *backend.Document) Category {
	return Category{
		ID:          doc.ID,
		Name:        doc.StringField("name"),
		Description: doc.StringField("description"),
	}
}

// MenuItemFromDocument maps a menu-collection document.
func MenuItemFromDocument(doc *backend.Document) MenuItem {
	return MenuItem{
		ID:          doc.ID,
		Name:        doc.StringField("name"),
		Description: doc.StringField("description"),
		ImageURL:    doc.StringField("image_url"),
		Price:       floatField(doc, "price"),
		Rating:      floatField(doc, "rating"),
		Calories:    int(floatField(doc, "calories")),
		Protein:     int(floatField(doc, "protein")),
	}
}

// floatField reads a numeric data field. JSON numbers decode as float64.
func floatField(doc *backend.Document, name string) float64 {
	f, _ := doc.Data[name].(float64)
	return f
}
