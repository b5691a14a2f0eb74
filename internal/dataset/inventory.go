package dataset

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Available scans the raw data root and reports which positions have data
// per season. A position counts as available if at least one week file
// exists for it.
func Available(root string) (map[int][]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	available := make(map[int][]string)
	for _, seasonDir := range entries {
		if !seasonDir.IsDir() {
			continue
		}
		season, err := strconv.Atoi(seasonDir.Name())
		if err != nil {
			continue
		}

		positions := make(map[string]struct{})
		weekDirs, err := os.ReadDir(filepath.Join(root, seasonDir.Name()))
		if err != nil {
			continue
		}
		for _, weekDir := range weekDirs {
			if !weekDir.IsDir() {
				continue
			}
			files, err := os.ReadDir(filepath.Join(root, seasonDir.Name(), weekDir.Name()))
			if err != nil {
				continue
			}
			for _, f := range files {
				if f.IsDir() || !strings.HasSuffix(f.Name(), ".csv") {
					continue
				}
				positions[strings.TrimSuffix(f.Name(), ".csv")] = struct{}{}
			}
		}

		if len(positions) == 0 {
			continue
		}
		list := make([]string, 0, len(positions))
		for pos := range positions {
			list = append(list, pos)
		}
		sort.Strings(list)
		available[season] = list
	}

	return available, nil
}
