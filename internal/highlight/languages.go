package highlight

import (
	"path/filepath"
	"strings"
)

// UnknownName is the name of the fallback language.
const UnknownName = "Unknown"

// Unknown highlights nothing.
var Unknown = NewLanguage(UnknownName)

var builtin = []*Language{
	goLanguage(),
	rustLanguage(),
	luaLanguage(),
	pythonLanguage(),
	markdownLanguage(),
	tomlLanguage(),
	Unknown,
}

// ByName finds a language by name, ignoring case.
func ByName(name string) (*Language, bool) {
	for _, l := range builtin {
		if strings.EqualFold(l.Name, strings.TrimSpace(name)) {
			return l, true
		}
	}
	return nil, false
}

// Detect picks a language from the file extension. Unknown is returned when
// nothing matches.
func Detect(path string) *Language {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return Unknown
	}
	for _, l := range builtin {
		for _, e := range l.Extensions {
			if e == ext {
				return l
			}
		}
	}
	return Unknown
}

const (
	doubleQuoted = `"(?:[^"\\]|\\.)*"`
	singleQuoted = `'(?:[^'\\]|\\.)*'`
	decimal      = `\b\d+\.?\d*(?:[eE][+-]?\d+)?\b`
	hex          = `\b0[xX][0-9a-fA-F_]+\b`
)

func goLanguage() *Language {
	return NewLanguage("Go", ".go").
		SetBlock("/*", "*/", KindComment).
		AddRule(`//.*$`, KindComment).
		AddRule(doubleQuoted, KindString).
		AddRule("`[^`]*`", KindString).
		AddRule(`'(?:[^'\\]|\\.)'`, KindString).
		AddRule(hex, KindNumber).
		AddRule(decimal, KindNumber).
		AddKeywords(KindKeyword,
			"break", "case", "chan", "const", "continue", "default", "defer",
			"else", "fallthrough", "for", "func", "go", "goto", "if", "import",
			"interface", "map", "package", "range", "return", "select",
			"struct", "switch", "type", "var").
		AddKeywords(KindConstant, "true", "false", "nil", "iota").
		AddKeywords(KindType,
			"bool", "byte", "complex64", "complex128", "error", "float32",
			"float64", "int", "int8", "int16", "int32", "int64", "rune",
			"string", "uint", "uint8", "uint16", "uint32", "uint64", "uintptr", "any").
		AddKeywords(KindBuiltin,
			"append", "cap", "clear", "close", "copy", "delete", "len", "make",
			"max", "min", "new", "panic", "print", "println", "recover")
}

func rustLanguage() *Language {
	return NewLanguage("Rust", ".rs").
		SetBlock("/*", "*/", KindComment).
		AddRule(`//.*$`, KindComment).
		AddRule(`r#*"[^"]*"#*`, KindString).
		AddRule(doubleQuoted, KindString).
		AddRule(`'(?:[^'\\]|\\.)'`, KindString).
		AddRule(`#!?\[.*?\]`, KindBuiltin).
		AddRule(hex, KindNumber).
		AddRule(`\b\d[\d_]*\.?[\d_]*(?:f32|f64|i\d+|u\d+|isize|usize)?\b`, KindNumber).
		AddKeywords(KindKeyword,
			"as", "async", "await", "break", "const", "continue", "crate",
			"dyn", "else", "enum", "extern", "fn", "for", "if", "impl", "in",
			"let", "loop", "match", "mod", "move", "mut", "pub", "ref",
			"return", "self", "Self", "static", "struct", "super", "trait",
			"type", "unsafe", "use", "where", "while").
		AddKeywords(KindConstant, "true", "false", "None", "Some", "Ok", "Err").
		AddKeywords(KindType,
			"i8", "i16", "i32", "i64", "i128", "isize", "u8", "u16", "u32",
			"u64", "u128", "usize", "f32", "f64", "bool", "char", "str",
			"String", "Vec", "Box", "Option", "Result")
}

func luaLanguage() *Language {
	return NewLanguage("Lua", ".lua").
		SetBlock("--[[", "]]", KindComment).
		AddRule(`--(?:$|[^\[]|\[$|\[[^\[]).*`, KindComment).
		AddRule(doubleQuoted, KindString).
		AddRule(singleQuoted, KindString).
		AddRule(`\[\[.*?\]\]`, KindString).
		AddRule(hex, KindNumber).
		AddRule(decimal, KindNumber).
		AddKeywords(KindKeyword,
			"and", "break", "do", "else", "elseif", "end", "for", "function",
			"goto", "if", "in", "local", "not", "or", "repeat", "return",
			"then", "until", "while").
		AddKeywords(KindConstant, "true", "false", "nil").
		AddKeywords(KindBuiltin,
			"assert", "error", "ipairs", "pairs", "pcall", "print", "require",
			"select", "setmetatable", "getmetatable", "tonumber", "tostring",
			"type", "unpack", "editor", "tasks")
}

func pythonLanguage() *Language {
	return NewLanguage("Python", ".py", ".pyw").
		SetBlock(`"""`, `"""`, KindString).
		AddRule(`#.*$`, KindComment).
		AddRule(`[rbf]?`+doubleQuoted, KindString).
		AddRule(`[rbf]?`+singleQuoted, KindString).
		AddRule(`@\w+`, KindBuiltin).
		AddRule(hex, KindNumber).
		AddRule(decimal, KindNumber).
		AddKeywords(KindKeyword,
			"and", "as", "assert", "async", "await", "break", "class",
			"continue", "def", "del", "elif", "else", "except", "finally",
			"for", "from", "global", "if", "import", "in", "is", "lambda",
			"nonlocal", "not", "or", "pass", "raise", "return", "try",
			"while", "with", "yield").
		AddKeywords(KindConstant, "True", "False", "None").
		AddKeywords(KindBuiltin,
			"len", "print", "range", "open", "int", "str", "list", "dict",
			"set", "tuple", "isinstance", "super", "self")
}

func markdownLanguage() *Language {
	return NewLanguage("Markdown", ".md", ".markdown").
		SetBlock("```", "```", KindCode).
		AddRule(`^#{1,6}\s+.*$`, KindHeading).
		AddRule(`^>\s+.*$`, KindComment).
		AddRule("`[^`]+`", KindCode).
		AddRule(`\*\*[^*]+\*\*`, KindEmphasis).
		AddRule(`__[^_]+__`, KindEmphasis).
		AddRule(`\*[^*]+\*`, KindEmphasis).
		AddRule(`\[[^\]]+\]\([^)]+\)`, KindLink).
		AddRule(`^\s*(?:[-*+]|\d+\.)\s`, KindKeyword)
}

func tomlLanguage() *Language {
	return NewLanguage("TOML", ".toml").
		SetBlock(`"""`, `"""`, KindString).
		AddRule(`#.*$`, KindComment).
		AddRule(`^\s*\[\[?[^\]]*\]\]?`, KindHeading).
		AddRule(doubleQuoted, KindString).
		AddRule(`'[^']*'`, KindString).
		AddRule(`^\s*[A-Za-z0-9_.-]+\s*=`, KindKeyword).
		AddRule(`\b\d{4}-\d{2}-\d{2}(?:[T ][0-9:.]+(?:Z|[+-]\d{2}:\d{2})?)?\b`, KindNumber).
		AddRule(hex, KindNumber).
		AddRule(`[+-]?`+decimal, KindNumber).
		AddKeywords(KindConstant, "true", "false", "inf", "nan")
}
