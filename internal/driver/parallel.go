package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"hscript/internal/ast"
	"hscript/internal/diag"
	"hscript/internal/parser"
	"hscript/internal/source"
)

// ParseDirResult содержит результат парсинга одного файла
type ParseDirResult struct {
	Path    string        // Путь к файлу
	FileID  source.FileID // ID файла в FileSet
	Program *ast.Program  // nil при ошибке
	Bag     *diag.Bag     // Диагностики
}

// listTemplateFiles возвращает отсортированный список всех файлов с расширением ext в директории
func listTemplateFiles(dir, ext string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ext) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// isPartial: файлы вида _nav.html подключаются через #include и не рендерятся сами.
func isPartial(path string) bool {
	return strings.HasPrefix(filepath.Base(path), "_")
}

// forEachFile запускает fn для каждого файла с ограничением параллелизма.
// fn пишет только в свой индекс результатов.
func forEachFile(ctx context.Context, files []string, jobs int, fn func(ctx context.Context, i int, path string) error) error {
	if len(files) == 0 {
		return nil
	}
	// Настраиваем параллелизм
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func(i int, path string) func() error {
			return func() error {
				// Проверка отмены
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				return fn(gctx, i, path)
			}
		}(i, path))
	}

	// Ждём завершения всех горутин
	return g.Wait()
}

// ParseDir парсит все шаблоны в директории параллельно
func ParseDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []ParseDirResult, error) {
	// Собираем список файлов
	files, err := listTemplateFiles(dir, opts.ext())
	if err != nil {
		return nil, nil, err
	}

	// Создаём FileSet и предзагружаем все файлы
	fileSet := source.NewFileSetWithBase(dir)
	fileSet.SetNormalizeNFC(opts.NFC)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))

	for _, path := range files {
		var fileID source.FileID
		fileID, err = fileSet.Load(path)
		if err != nil {
			// Сохраняем ошибку загрузки для последующей обработки
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = fileID
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]ParseDirResult, len(files))

	err = forEachFile(ctx, files, opts.Jobs, func(_ context.Context, i int, path string) error {
		// Создаём bag для диагностик
		bag := diag.NewBag(opts.maxDiagnostics())
		results[i] = ParseDirResult{Path: path, Bag: bag}

		// Проверяем ошибку загрузки
		if loadErr, hadError := loadErrors[path]; hadError {
			bag.Add(diag.LoadFailure(loadErr))
			return nil
		}

		fileID := fileIDs[path]
		popts := opts.parserOptions()
		popts.Reporter = &diag.BagReporter{Bag: bag}

		res := parser.ParseFile(fileSet, fileID, popts)
		results[i].FileID = fileID
		results[i].Program = res.Program
		return nil
	})
	return fileSet, results, err
}
