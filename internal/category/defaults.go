package category

import "fmt"

// DefaultCategories returns the built-in table contents in match order.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Images", Extensions: []string{"jpg", "jpeg", "png", "gif", "bmp", "svg", "webp", "tiff"}},
		{Name: "Documents", Extensions: []string{"pdf", "docx", "doc", "txt", "xlsx", "pptx", "md", "rtf", "odt", "csv"}},
		{Name: "Audio", Extensions: []string{"mp3", "wav", "flac", "aac", "ogg", "wma", "m4a"}},
		{Name: "Video", Extensions: []string{"mp4", "mov", "avi", "mkv", "flv", "wmv", "mpeg", "webm"}},
		{Name: "Archives", Extensions: []string{"zip", "rar", "tar", "gz", "7z", "iso", "dmg"}},
		{Name: "Code", Extensions: []string{"py", "js", "html", "css", "java", "c", "cpp", "json", "xml", "php", "rb", "swift"}},
		{Name: "Executables", Extensions: []string{"exe", "msi", "bat", "sh", "app", "apk", "jar"}},
		{Name: "Design", Extensions: []string{"psd", "ai", "xd", "fig", "sketch", "eps"}},
		{Name: "Data", Extensions: []string{"db", "sqlite", "sql", "csv", "tsv"}},
		{Name: "Others"},
	}
}

var defaultTable = mustNew(DefaultCategories())

// Default returns the built-in table. The result is shared and immutable.
func Default() *Table {
	return defaultTable
}

func mustNew(categories []Category) *Table {
	t, err := New(categories)
	if err != nil {
		panic(fmt.Sprintf("category: invalid built-in table: %v", err))
	}
	return t
}
