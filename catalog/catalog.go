// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/siemens/geoping/types"

	log "github.com/sirupsen/logrus"
)

// record is the shape of a single resolver entry inside a per-country
// catalog file. Catalog files in the wild carry plenty of additional fields;
// these simply get ignored.
type record struct {
	IP   string `json:"ip"`
	City string `json:"city"`
}

// Load reads the resolver catalog from the specified directory, where every
// "*.json" file claims the resolvers listed inside it for the country named
// by the file's stem ("de.json" claims for DE). The targets are returned in
// file name and then record order.
//
// Records without an IP address are dropped with a warning, as are repeated
// claims of the same IP address; only the first claim wins, so target
// identity by IP address holds for the whole campaign. An unreadable
// directory, a malformed catalog file, and a catalog without a single usable
// resolver record are errors.
func Load(dir string) ([]types.Target, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read catalog directory: %w", err)
	}
	targets := []types.Target{}
	claims := map[string]string{} // IP address -> name of file claiming it first.
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		country := strings.ToUpper(strings.TrimSuffix(entry.Name(), ".json"))
		if country == "" {
			log.Warnf("ignoring catalog file %q as it does not name a country", entry.Name())
			continue
		}
		name := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("cannot read catalog file: %w", err)
		}
		var records []record
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("malformed catalog file %q: %w", name, err)
		}
		for _, record := range records {
			if record.IP == "" {
				log.Warnf("catalog file %q claims a resolver without an IP address", name)
				continue
			}
			if first, ok := claims[record.IP]; ok {
				log.Warnf("catalog file %q claims %s again, keeping the first claim from %q",
					name, record.IP, first)
				continue
			}
			claims[record.IP] = name
			targets = append(targets, types.Target{
				IP:             record.IP,
				City:           record.City,
				ClaimedCountry: country,
			})
		}
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("catalog directory %q does not claim any resolvers", dir)
	}
	return targets, nil
}
