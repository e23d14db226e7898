package world

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayName title-cases a prefab name for messages ("leather jacket" ->
// "Leather Jacket").
func DisplayName(name string) string {
	return cases.Title(language.English).String(name)
}
