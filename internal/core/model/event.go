package model

// Expansion groups categories into one tab of the catalog.
type Expansion struct {
	ID   int
	Name string
}

// Category groups related events. Toggleable categories carry their own
// checkbox that switches every event in the category at once.
type Category struct {
	ID          int
	ExpansionID int
	Name        string
	Toggleable  bool
}

// EventDefinition is a trackable catalog entry. It is never modified after load.
type EventDefinition struct {
	ID           string
	Name         string
	CategoryID   int
	MapName      string
	WaypointName string
	Schedule     Schedule
}

// Label returns the display name and location of the event inside the given category.
func (def EventDefinition) Label(categoryName string) (string, string) {
	switch {
	case def.Name == categoryName:
		return def.MapName, def.WaypointName
	case def.MapName == categoryName:
		return def.Name, def.WaypointName
	default:
		return def.Name, def.MapName
	}
}

// IsFestival reports whether the event follows explicit windows.
func (def EventDefinition) IsFestival() bool {
	_, ok := def.Schedule.(WindowSchedule)
	return ok
}

// Catalog is the ordered, read-only set of expansions, categories and events.
type Catalog struct {
	Expansions []Expansion
	Categories []Category
	Events     []EventDefinition
}

// LastExpansionID returns the ID of the final expansion, which holds festivals.
func (catalog Catalog) LastExpansionID() int {
	if len(catalog.Expansions) == 0 {
		return 0
	}
	return catalog.Expansions[len(catalog.Expansions)-1].ID
}

// FestivalCategoryID returns the first category of the last expansion, or 0.
func (catalog Catalog) FestivalCategoryID() int {
	lastExpansion := catalog.LastExpansionID()
	for _, category := range catalog.Categories {
		if category.ExpansionID == lastExpansion {
			return category.ID
		}
	}
	return 0
}

// CategoriesOf returns the categories of an expansion in catalog order.
func (catalog Catalog) CategoriesOf(expansionID int) []Category {
	var categories []Category
	for _, category := range catalog.Categories {
		if category.ExpansionID == expansionID {
			categories = append(categories, category)
		}
	}
	return categories
}

// EventsOf returns the events of a category in catalog order.
func (catalog Catalog) EventsOf(categoryID int) []EventDefinition {
	var events []EventDefinition
	for _, def := range catalog.Events {
		if def.CategoryID == categoryID {
			events = append(events, def)
		}
	}
	return events
}

// Category looks up a category by ID.
func (catalog Catalog) Category(id int) (Category, bool) {
	for _, category := range catalog.Categories {
		if category.ID == id {
			return category, true
		}
	}
	return Category{}, false
}
