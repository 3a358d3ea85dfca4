package i18n

import "sync/atomic"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "field" or "expected").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"type_mismatch":     "value kind does not match the declared type",
		"invalid_format":    "malformed timestamp",
		"invalid_enum":      "value is not one of the allowed values",
		"unknown_schema":    "unknown schema",
		"duplicate_schema":  "schema already registered",
		"invalid_schema":    "invalid schema declaration",
		"conflicting_alias": "field supplied under both of its names",
		"unknown_field":     "field is not declared",
		"unknown_key":       "unknown key",
		"duplicate_key":     "duplicate key",
		"parse_error":       "parse error",
		"truncated":         "truncated",
	},
	"ja": {
		"type_mismatch":     "型が宣言と一致しません",
		"invalid_format":    "日時の形式が不正です",
		"invalid_enum":      "許可されていない値です",
		"unknown_schema":    "未登録のスキーマです",
		"duplicate_schema":  "スキーマが重複して登録されています",
		"invalid_schema":    "スキーマ宣言が不正です",
		"conflicting_alias": "同じフィールドが両方の名前で指定されています",
		"unknown_field":     "宣言されていないフィールドです",
		"unknown_key":       "未知のキーです",
		"duplicate_key":     "キーが重複しています",
		"parse_error":       "解析エラー",
		"truncated":         "打ち切られました",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if f := data["field"]; f != "" {
		return msg + ": " + f
	}
	return msg
}

type holder struct{ tr Translator }

var current atomic.Pointer[holder]

func init() { current.Store(&holder{tr: dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	current.Store(&holder{tr: dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current.Store(&holder{tr: tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return current.Load().tr.Message(code, data) }
