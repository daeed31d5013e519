package inventory

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/file-butler/go/internal/types"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
)

// Extension table used when content sniffing is unavailable or
// inconclusive.
var extCategories = map[string]types.ContentCategory{
	".pdf":  types.CategoryDocuments,
	".doc":  types.CategoryDocuments,
	".docx": types.CategoryDocuments,
	".xls":  types.CategoryDocuments,
	".xlsx": types.CategoryDocuments,
	".ppt":  types.CategoryDocuments,
	".pptx": types.CategoryDocuments,
	".txt":  types.CategoryDocuments,
	".md":   types.CategoryDocuments,
	".rtf":  types.CategoryDocuments,
	".epub": types.CategoryDocuments,

	".jpg":  types.CategoryImages,
	".jpeg": types.CategoryImages,
	".png":  types.CategoryImages,
	".gif":  types.CategoryImages,
	".webp": types.CategoryImages,
	".heic": types.CategoryImages,
	".svg":  types.CategoryImages,

	".mp3":  types.CategoryAudio,
	".wav":  types.CategoryAudio,
	".flac": types.CategoryAudio,
	".m4a":  types.CategoryAudio,

	".mp4": types.CategoryVideo,
	".mov": types.CategoryVideo,
	".mkv": types.CategoryVideo,
	".avi": types.CategoryVideo,

	".zip": types.CategoryArchives,
	".tar": types.CategoryArchives,
	".gz":  types.CategoryArchives,
	".7z":  types.CategoryArchives,
	".rar": types.CategoryArchives,
	".dmg": types.CategoryArchives,

	".go":   types.CategoryCode,
	".py":   types.CategoryCode,
	".js":   types.CategoryCode,
	".ts":   types.CategoryCode,
	".rs":   types.CategoryCode,
	".c":    types.CategoryCode,
	".h":    types.CategoryCode,
	".sh":   types.CategoryCode,
	".json": types.CategoryCode,
	".yaml": types.CategoryCode,
	".yml":  types.CategoryCode,
}

// Categorize infers the coarse content category for a file. The file
// header is sniffed first; sniffing failures degrade to the extension
// table, and files neither recognizes are unknown.
func Categorize(path, name string) types.ContentCategory {
	if cat, ok := sniff(path); ok {
		return cat
	}
	if cat, ok := extCategories[strings.ToLower(filepath.Ext(name))]; ok {
		return cat
	}
	return types.CategoryUnknown
}

func sniff(path string) (types.ContentCategory, bool) {
	f, err := os.Open(path)
	if err != nil {
		return types.CategoryUnknown, false
	}
	defer f.Close()

	// 261 bytes is all filetype needs to match its magic numbers.
	head := make([]byte, 261)
	n, err := f.Read(head)
	if err != nil || n == 0 {
		return types.CategoryUnknown, false
	}

	kind, err := filetype.Match(head[:n])
	if err != nil || kind == filetype.Unknown {
		return types.CategoryUnknown, false
	}

	switch kind.MIME.Type {
	case "image":
		return types.CategoryImages, true
	case "audio":
		return types.CategoryAudio, true
	case "video":
		return types.CategoryVideo, true
	}
	switch kind {
	case matchers.TypePdf, matchers.TypeDoc, matchers.TypeDocx, matchers.TypeXls, matchers.TypeXlsx, matchers.TypePpt, matchers.TypePptx, matchers.TypeEpub:
		return types.CategoryDocuments, true
	case matchers.TypeZip, matchers.TypeTar, matchers.TypeGz, matchers.TypeBz2, matchers.Type7z, matchers.TypeRar, matchers.TypeXz:
		return types.CategoryArchives, true
	}
	return types.CategoryUnknown, false
}
