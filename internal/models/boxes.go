package models

// Box codes follow the labeling scheme used on the physical boxes:
// a two-letter category prefix, a box number, and an optional location
// suffix, e.g. DO3M = Documents box 3, Mom's Room.

var boxCategories = map[string]string{
	"DO": "Documents",
	"KN": "Knickknacks",
	"OS": "Office Supplies",
	"CL": "Clothing",
	"KT": "Kitchen Items",
	"BK": "Books",
	"EL": "Electronics",
	"TO": "Tools",
	"ME": "Memorabilia",
	"DC": "Decor Items",
	"TR": "Toys",
	"PI": "Pictures",
	"AN": "Antiques",
	"GE": "Genealogy Files",
	"MG": "Magazines/Newspapers",
}

var boxLocations = map[string]string{
	"L":  "Living Room",
	"M":  "Mom's Room",
	"G1": "Guest Room 1",
	"G2": "Guest Room 2",
	"S":  "Storage Room",
}

// FriendlyBoxName derives a display label from a box code, matching the
// ingestion tool's derivation: category name plus the location name when a
// recognized suffix is present.
func FriendlyBoxName(boxID string) string {
	category := "Unknown"
	if len(boxID) >= 2 {
		if name, ok := boxCategories[boxID[:2]]; ok {
			category = name
		}
	}

	location := ""
	if len(boxID) > 2 {
		if name, ok := boxLocations[boxID[len(boxID)-2:]]; ok {
			location = name
		} else if name, ok := boxLocations[boxID[len(boxID)-1:]]; ok {
			location = name
		}
	}

	if location == "" {
		return category
	}
	return category + " - " + location
}
