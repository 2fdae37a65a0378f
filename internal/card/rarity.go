package card

import "strings"

// Language of a physical printing.
type Language string

const (
	LangEnglish    Language = "en"
	LangGerman     Language = "de"
	LangFrench     Language = "fr"
	LangItalian    Language = "it"
	LangSpanish    Language = "es"
	LangPortuguese Language = "pt"
	LangJapanese   Language = "jp"
	LangKorean     Language = "kr"
)

var languageNames = map[Language]string{
	LangEnglish:    "English",
	LangGerman:     "German",
	LangFrench:     "French",
	LangItalian:    "Italian",
	LangSpanish:    "Spanish",
	LangPortuguese: "Portuguese",
	LangJapanese:   "Japanese",
	LangKorean:     "Korean",
}

func (l Language) Valid() bool {
	_, ok := languageNames[l]
	return ok
}

func (l Language) Name() string { return languageNames[l] }

// RarityCode is the short rarity tag printed on set lists (UR, ScR...).
type RarityCode string

var rarityNames = map[RarityCode]string{
	"C":    "Common",
	"R":    "Rare",
	"SR":   "Super Rare",
	"HFR":  "Holographic Foil Rare",
	"UR":   "Ultra Rare",
	"URP":  "Ultra Rare Pharaoh's Rare",
	"UtR":  "Ultimate Rare",
	"ScR":  "Secret Rare",
	"QSrR": "Quarter Century Secret Rare",
	"UScR": "Ultra-Secret Rare",
	"ScUR": "Secret-Ultra Rare",
	"PScR": "Prismatic Secret Rare",
	"PR":   "Parallel Rare",
	"SFR":  "Starfoil Rare",
	"SLR":  "Starlight Rare",
	"GR":   "Ghost Rare",
	"GUR":  "Ghost Ultra Rare",
}

func (r RarityCode) Valid() bool {
	_, ok := rarityNames[r]
	return ok
}

// RarityName returns the long name, or "" for unknown codes.
func (r RarityCode) RarityName() string { return rarityNames[r] }

// RarityCodeFromName maps a long rarity name back to its code.
func RarityCodeFromName(name string) (RarityCode, bool) {
	for code, n := range rarityNames {
		if n == name {
			return code, true
		}
	}
	return "", false
}

// SanitizeRarityCode strips the parentheses the upstream feed wraps codes in, "(UR)" -> "UR".
func SanitizeRarityCode(code string) RarityCode {
	return RarityCode(strings.NewReplacer("(", "", ")", "").Replace(strings.TrimSpace(code)))
}
