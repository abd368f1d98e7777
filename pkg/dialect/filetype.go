package dialect

import (
	"path/filepath"

	"github.com/go-enry/go-enry/v2"
)

// languageGCode is the linguist name go-enry reports for G-code.
const languageGCode = "G-code"

// sniffSize bounds how much content is handed to the classifier.
const sniffSize = 16 * 1024

// IsGCode reports whether go-enry recognises the file as G-code, using its
// name first and its leading content to break ties between languages that
// share an extension.
func IsGCode(path string, content []byte) bool {
	head := content
	if len(head) > sniffSize {
		head = head[:sniffSize]
	}

	if lang, safe := enry.GetLanguageByExtension(filepath.Base(path)); safe {
		return lang == languageGCode
	}

	candidates := enry.GetLanguagesByExtension(filepath.Base(path), head, nil)
	if len(candidates) == 0 {
		return enry.GetLanguage(filepath.Base(path), head) == languageGCode
	}

	lang, _ := enry.GetLanguageByClassifier(head, candidates)
	return lang == languageGCode
}
