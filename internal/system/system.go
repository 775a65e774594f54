package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Расширения файлов с путевыми точками
var WaypointExtensions = []string{".csv", ".txt", ".json", ".yaml", ".yml"}

// FindLatest возвращает самый свежий файл в dir с одним из расширений exts.
// Без exts подходит любой файл.
func FindLatest(dir string, exts ...string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExtension(f.Name(), exts) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if latestFile == "" || info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено подходящих файлов (%s)", dir, strings.Join(exts, ", "))
	}

	return latestFile, nil
}

// FindLatestWaypoints ищет самый свежий файл с путевыми точками.
func FindLatestWaypoints(dir string) (string, error) {
	return FindLatest(dir, WaypointExtensions...)
}

// EnsureDirs создает каталоги, если их еще нет.
func EnsureDirs(dirs ...string) error {
	for _, d := range dirs {
		if d == "" || d == "." {
			continue
		}
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("не удалось создать каталог %s: %w", d, err)
		}
	}
	return nil
}

func hasExtension(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
