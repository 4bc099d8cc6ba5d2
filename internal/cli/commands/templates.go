package commands

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

//go:embed all:templates
var templateFS embed.FS

// projectTemplate is the template written by init.
const projectTemplate = "project"

// sampleDataFile is the bundled sample dataset.
const sampleDataFile = "spacex_launch_dash.csv"

// templateFile is one file written from a template.
type templateFile struct {
	Name    string
	Skipped bool
}

// copyTemplate copies an embedded template directory to the target path.
// Existing files are kept unless force is set; files for which skip returns
// true are not written.
func copyTemplate(templateName, targetDir string, force bool, skip func(name string) bool) ([]templateFile, error) {
	root := path.Join("templates", templateName)
	var written []templateFile

	err := fs.WalkDir(templateFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		name := renameSpecialFiles(p[len(root)+1:])
		if skip != nil && skip(name) {
			return nil
		}
		targetPath := filepath.Join(targetDir, filepath.FromSlash(name))

		if !force {
			if _, err := os.Stat(targetPath); err == nil {
				written = append(written, templateFile{Name: name, Skipped: true})
				return nil
			}
		}

		if err := os.MkdirAll(filepath.Dir(targetPath), 0750); err != nil {
			return err
		}
		content, err := templateFS.ReadFile(p)
		if err != nil {
			return err
		}
		if err := os.WriteFile(targetPath, content, 0600); err != nil {
			return err
		}
		written = append(written, templateFile{Name: name})
		return nil
	})

	return written, err
}

// renameSpecialFiles handles files that need renaming (e.g., dotfiles).
func renameSpecialFiles(name string) string {
	dir, base := path.Split(name)
	switch base {
	case "gitignore":
		return dir + ".gitignore"
	default:
		return name
	}
}
