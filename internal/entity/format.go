package entity

import (
	"sort"
	"strconv"
	"strings"
)

// FormatInfo describes one storage format.
type FormatInfo struct {
	Name        string
	Generation  int
	MaxNickname int
	MaxSpecies  int
}

var formats = map[string]FormatInfo{
	"pk1": {Name: "pk1", Generation: 1, MaxNickname: 10, MaxSpecies: 151},
	"pk3": {Name: "pk3", Generation: 3, MaxNickname: 10, MaxSpecies: 386},
	"pk7": {Name: "pk7", Generation: 7, MaxNickname: 12, MaxSpecies: 809},
	"pk9": {Name: "pk9", Generation: 9, MaxNickname: 12, MaxSpecies: 1025},
}

// DefaultFormat is the format of newly created stores.
const DefaultFormat = "pk9"

// Lookup returns the format named name.
func Lookup(name string) (FormatInfo, bool) {
	f, ok := formats[strings.ToLower(name)]
	return f, ok
}

// Formats returns the known format names, oldest first.
func Formats() []string {
	names := make([]string, 0, len(formats))
	for n := range formats {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		return formats[names[i]].Generation < formats[names[j]].Generation
	})
	return names
}

func (f FormatInfo) String() string {
	return f.Name + " (gen " + strconv.Itoa(f.Generation) + ")"
}
