package resource_manager

import (
	"github.com/meysamhadeli/resman/resource_manager/models"
	"github.com/meysamhadeli/resman/utils"
)

// FindFileRecord returns the best record for filename under the current language and
// enabled categories, or nil. Search roots are tried in order and the first one with an
// admissible candidate wins.
func (m *Manager) FindFileRecord(filename string) *models.FileRecord {
	for _, searchRoot := range m.searchRootsList {
		key := m.normalizeKey(utils.Combine(searchRoot, utils.NormalizeSeparators(filename)))

		if record := m.bestCandidate(m.store.lookup(key)); record != nil {
			m.recordLookupHit()
			return record
		}
	}

	m.recordLookupMiss()
	return nil
}

// bestCandidate prefers category-tagged records, then language-tagged ones. Records of equal
// specificity keep discovery order.
func (m *Manager) bestCandidate(candidates []*models.FileRecord) *models.FileRecord {
	var best *models.FileRecord
	bestScore := -1
	for _, record := range candidates {
		if !m.isAdmissible(record) {
			continue
		}
		if score := specificity(record); score > bestScore {
			best, bestScore = record, score
		}
	}
	return best
}

// isAdmissible: with no current language only generic records are visible, otherwise
// generic records and those of the current language. Category-tagged records need their
// category enabled.
func (m *Manager) isAdmissible(record *models.FileRecord) bool {
	if record.LanguageID != "" && record.LanguageID != m.languageID {
		return false
	}
	if record.Category != "" {
		if _, enabled := m.enabledCategories[record.Category]; !enabled {
			return false
		}
	}
	return true
}

func specificity(record *models.FileRecord) int {
	score := 0
	if record.Category != "" {
		score += 2
	}
	if record.LanguageID != "" {
		score++
	}
	return score
}

// Exists reports whether filename resolves to a record.
func (m *Manager) Exists(filename string) bool {
	return m.FindFileRecord(filename) != nil
}

// GetSize returns the indexed size of filename, or 0 when it does not resolve.
func (m *Manager) GetSize(filename string) int64 {
	record := m.FindFileRecord(filename)
	if record == nil {
		return 0
	}
	return record.Size
}
