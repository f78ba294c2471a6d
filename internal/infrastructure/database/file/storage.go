package file

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
)

const filePerm = 0o644

// FileStorage хранит offset одной строкой в текстовом файле.
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Offset читает первую строку файла. Отсутствующий файл и пустая строка
// означают, что offset еще не сохранялся.
func (f *FileStorage) Offset(_ context.Context) (int64, bool, error) {
	file, err := os.Open(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, false, nil
	}

	if err != nil {
		return 0, false, NewErrWithStorage(err.Error())
	}

	defer file.Close()

	line, err := bufio.NewReader(file).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, false, NewErrWithStorage(err.Error())
	}

	line = strings.TrimSpace(line)

	if line == "" {
		return 0, false, nil
	}

	offset, err := strconv.ParseInt(line, 10, 64)
	if err != nil {
		return 0, false, NewErrBadOffset(line)
	}

	return offset, true, nil
}

func (f *FileStorage) SetOffset(_ context.Context, offset int64) error {
	if err := os.WriteFile(f.path, []byte(strconv.FormatInt(offset, 10)), filePerm); err != nil {
		return NewErrWithStorage(err.Error())
	}

	return nil
}
