package memos

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCategory = errors.New("invalid category")
)

// Category codes.
const (
	CategoryPersonal = "personal"
	CategoryWork     = "work"
	CategoryStudy    = "study"
	CategoryIdea     = "idea"
	CategoryOther    = "other"

	DefaultCategory = CategoryOther
)

// Palette names the colour family a category is drawn in.
type Palette int

const (
	PaletteGray Palette = iota
	PaletteBlue
	PaletteGreen
	PalettePurple
	PaletteYellow
)

// CategoryInfo is the display form of a category code.
type CategoryInfo struct {
	Code    string
	Label   string
	Palette Palette
	Known   bool
}

// Categories lists the known category codes in display order.
func Categories() []string {
	return []string{CategoryPersonal, CategoryWork, CategoryStudy, CategoryIdea, CategoryOther}
}

// LookupCategory maps any code to its display form. Unknown codes get the
// "other" palette and keep the raw code as their label.
func LookupCategory(code string) CategoryInfo {
	switch code {
	case CategoryPersonal:
		return CategoryInfo{Code: code, Label: "Personal", Palette: PaletteBlue, Known: true}
	case CategoryWork:
		return CategoryInfo{Code: code, Label: "Work", Palette: PaletteGreen, Known: true}
	case CategoryStudy:
		return CategoryInfo{Code: code, Label: "Study", Palette: PalettePurple, Known: true}
	case CategoryIdea:
		return CategoryInfo{Code: code, Label: "Idea", Palette: PaletteYellow, Known: true}
	case CategoryOther:
		return CategoryInfo{Code: code, Label: "Other", Palette: PaletteGray, Known: true}
	default:
		return CategoryInfo{Code: code, Label: code, Palette: PaletteGray, Known: false}
	}
}

// ValidateCategory returns ErrInvalidCategory for codes outside the known set.
func ValidateCategory(code string) error {
	if !LookupCategory(code).Known {
		return fmt.Errorf("%w: %q (want one of %v)", ErrInvalidCategory, code, Categories())
	}
	return nil
}

// NextCategory cycles through "" (all) and the known codes; the board uses
// it for its category filter.
func NextCategory(code string) string {
	all := Categories()
	if code == "" {
		return all[0]
	}
	for i, c := range all {
		if c == code && i+1 < len(all) {
			return all[i+1]
		}
	}
	return ""
}
