package utils

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// SolidityFileExtension is the extension of smart contract source files picked up from target directories.
const SolidityFileExtension = ".sol"

// ignoredSourceDirectories are never descended into while discovering source files.
var ignoredSourceDirectories = map[string]struct{}{
	"node_modules": {},
	".git":         {},
}

// SolFilesByDirectory returns the absolute paths of every Solidity source file below the given directory, sorted.
// Dependency directories (node_modules) and hidden directories are skipped.
func SolFilesByDirectory(directory string) ([]string, error) {
	dirInfo, err := os.Stat(directory)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !dirInfo.IsDir() {
		return nil, errors.Errorf("could not find directory %s", directory)
	}

	root, err := filepath.Abs(directory)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	files := make([]string, 0)
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path == root {
				return nil
			}
			if _, ignored := ignoredSourceDirectories[entry.Name()]; ignored || strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == SolidityFileExtension {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	sort.Strings(files)
	return files, nil
}

// IsDirectory returns whether the path exists and refers to a directory.
func IsDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsFile returns whether the path exists and refers to a regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// MakeAbsolute returns path unchanged if it is absolute, otherwise joined onto base.
func MakeAbsolute(path string, base string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

// RelativeToOrSelf returns path relative to base when possible, the path itself otherwise.
func RelativeToOrSelf(path string, base string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return rel
}

// CopyFile copies a file from a source path to a destination path. File permissions are retained. Returns an error
// if one occurs.
func CopyFile(sourcePath string, targetPath string) error {
	sourceInfo, err := os.Stat(sourcePath)
	if err != nil {
		return errors.WithStack(err)
	}
	if sourceInfo.IsDir() {
		return errors.Errorf("could not copy file from '%s' to '%s' because the source path refers to a directory", sourcePath, targetPath)
	}

	// Ensure the existence of the directory we wish to copy to.
	if err = MakeDirectory(filepath.Dir(targetPath)); err != nil {
		return err
	}

	sourceFile, err := os.Open(sourcePath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer sourceFile.Close()

	targetFile, err := os.Create(targetPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer targetFile.Close()

	if _, err = io.Copy(targetFile, sourceFile); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.Chmod(targetPath, sourceInfo.Mode()))
}

// MakeDirectory creates a directory at the given path, including any parent directories which do not exist.
// Returns an error, if one occurred.
func MakeDirectory(dirToMake string) error {
	dirInfo, err := os.Stat(dirToMake)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.WithStack(os.MkdirAll(dirToMake, 0755))
		}
		return errors.WithStack(err)
	}

	if !dirInfo.IsDir() {
		return errors.Errorf("there is a file with the same name as %s", dirToMake)
	}
	return nil
}

// CopyDirectory copies a directory from a source path to a destination path. If recursively, all subdirectories will be
// copied. If not, only files within the directory will be copied. Returns an error if one occurs.
func CopyDirectory(sourcePath string, targetPath string, recursively bool) error {
	sourceInfo, err := os.Stat(sourcePath)
	if err != nil {
		return errors.WithStack(err)
	}
	if !sourceInfo.IsDir() {
		return errors.Errorf("could not copy directory from '%s' to '%s' because the source path does not refer to a valid directory", sourcePath, targetPath)
	}

	if err = os.MkdirAll(targetPath, sourceInfo.Mode()); err != nil {
		return errors.WithStack(err)
	}

	dirEntries, err := os.ReadDir(sourcePath)
	if err != nil {
		return errors.WithStack(err)
	}

	for _, dirEntry := range dirEntries {
		entSourcePath := filepath.Join(sourcePath, dirEntry.Name())
		entTargetPath := filepath.Join(targetPath, dirEntry.Name())

		if dirEntry.IsDir() {
			if recursively {
				if err = CopyDirectory(entSourcePath, entTargetPath, recursively); err != nil {
					return err
				}
			}
		} else if err = CopyFile(entSourcePath, entTargetPath); err != nil {
			return err
		}
	}
	return nil
}
