// Package storage implementa el almacenamiento de imágenes (fotos y firmas):
// disco local servido por fiber o un bucket S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/carpet-shop-api/internal/domain"
)

// LocalStorage guarda en un directorio y publica bajo un prefijo URL (ej. /uploads).
type LocalStorage struct {
	dir       string
	publicURL string
}

// NewLocalStorage crea el directorio base si no existe.
func NewLocalStorage(dir, publicURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear %s: %w", dir, err)
	}
	return &LocalStorage{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Save escribe data en dir/key y devuelve la ruta pública.
func (s *LocalStorage) Save(_ context.Context, key string, data []byte, _ string) (string, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("storage: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: escribir %s: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}

// Delete borra el archivo de una ruta pública. Rutas ajenas o ya borradas no son error.
func (s *LocalStorage) Delete(_ context.Context, publicPath string) error {
	key, ok := strings.CutPrefix(publicPath, s.publicURL+"/")
	if !ok || key == "" {
		return nil
	}
	path, err := s.pathFor(key)
	if err != nil {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: borrar %s: %w", key, err)
	}
	return nil
}

func (s *LocalStorage) pathFor(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == "." || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("storage: clave inválida %q: %w", key, domain.ErrInvalidInput)
	}
	return filepath.Join(s.dir, clean), nil
}
