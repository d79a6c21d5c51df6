package domain

import (
	"path"
	"sort"
	"strings"
)

// AssetIndex maps lower-cased bare filenames to raw image bytes,
// built once from the uploaded archive. Lookup is exact after
// normalization; the extension-stripped variant is kept behind a
// separate method because the two conventions disagree across
// template generations and the choice is a configuration constant.
type AssetIndex struct {
	exact map[string][]byte
	bare  map[string][]byte
}

// NewAssetIndex returns an empty index.
func NewAssetIndex() *AssetIndex {
	return &AssetIndex{
		exact: make(map[string][]byte),
		bare:  make(map[string][]byte),
	}
}

// Add registers one archive entry. Any directory prefix is stripped
// and the key is lower-cased; the first entry for a key wins so a
// duplicate deeper in the archive cannot shadow an earlier one.
func (idx *AssetIndex) Add(name string, data []byte) {
	key := strings.ToLower(path.Base(strings.TrimSpace(name)))
	if key == "" || key == "." {
		return
	}
	if _, ok := idx.exact[key]; !ok {
		idx.exact[key] = data
	}
	bare := strings.TrimSuffix(key, path.Ext(key))
	if bare != "" {
		if _, ok := idx.bare[bare]; !ok {
			idx.bare[bare] = data
		}
	}
}

// Lookup resolves a declared filename by exact key match after
// trimming and lower-casing. Absence is not an error; it signals
// "use fallback".
func (idx *AssetIndex) Lookup(declared string) ([]byte, bool) {
	key := strings.ToLower(strings.TrimSpace(declared))
	data, ok := idx.exact[key]
	return data, ok
}

// LookupLoose resolves a declared filename ignoring the extension on
// both sides. This is the legacy matching convention.
func (idx *AssetIndex) LookupLoose(declared string) ([]byte, bool) {
	key := strings.ToLower(strings.TrimSpace(declared))
	key = strings.TrimSuffix(key, path.Ext(key))
	data, ok := idx.bare[key]
	return data, ok
}

// Len returns the number of indexed files.
func (idx *AssetIndex) Len() int {
	return len(idx.exact)
}

// Names returns the indexed filenames, sorted.
func (idx *AssetIndex) Names() []string {
	names := make([]string, 0, len(idx.exact))
	for k := range idx.exact {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
