package model

// DefaultCategoryIcon is used when a category is created without an icon.
const DefaultCategoryIcon = "📋"

// Category groups tasks. System categories are seeded once and are read-only.
type Category struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Icon        string `gorm:"not null"`
	Description string `gorm:"not null"`
	IsSystem    bool   `gorm:"not null;index"`
	Tasks       []Task `gorm:"foreignKey:CategoryID"`
}

// SystemCategories returns the categories seeded into an empty store, in id order.
func SystemCategories() []Category {
	return []Category{
		{Name: "Personal", Icon: "👤", Description: "Personal tasks", IsSystem: true},
		{Name: "Work", Icon: "💼", Description: "Work-related tasks", IsSystem: true},
	}
}
