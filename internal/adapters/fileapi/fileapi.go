// Package fileapi reads the generator's file-based API: queries are empty
// marker files written before a configure, replies are JSON documents the
// tool drops into the build tree afterwards.
package fileapi

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	clientName      = "client-mason"
	queryCodeModel  = "codemodel-v2"
	queryCMakeFiles = "cmakeFiles-v1"
	indexFilePrefix = "index-"
	replyDirName    = "reply"
	queryDirName    = "query"
)

// Reader writes queries and decodes replies for one build directory.
type Reader struct {
	logger ports.Logger
}

func NewReader(logger ports.Logger) *Reader {
	return &Reader{logger: logger}
}

// WriteQuery drops the marker files that ask the next configure to emit a
// code model and input file list. Idempotent.
func (r *Reader) WriteQuery(binaryDir string) error {
	dir := filepath.Join(domain.FileAPIPath(binaryDir), queryDirName, clientName)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, "create file api query directory")
	}
	for _, name := range []string{queryCodeModel, queryCMakeFiles} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, nil, domain.FilePerm); err != nil {
			return zerr.Wrap(err, "write file api query")
		}
	}
	return nil
}

// ReadCodeModel loads the newest code model reply.
func (r *Reader) ReadCodeModel(binaryDir string) (*domain.CodeModel, error) {
	replyDir := filepath.Join(domain.FileAPIPath(binaryDir), replyDirName)
	ref, err := r.findReply(replyDir, queryCodeModel)
	if err != nil {
		return nil, err
	}

	var doc codeModelDoc
	if err := readJSON(filepath.Join(replyDir, ref), &doc); err != nil {
		return nil, err
	}

	model := &domain.CodeModel{}
	for _, cfg := range doc.Configurations {
		model.Configurations = append(model.Configurations, cfg.Name)

		targets := make([]domain.Target, len(cfg.Targets))
		for i, tref := range cfg.Targets {
			target, err := r.readTarget(replyDir, doc.Paths.Source, tref.JSONFile)
			if err != nil {
				return nil, err
			}
			targets[i] = target
		}

		for _, proj := range cfg.Projects {
			project := domain.Project{Name: proj.Name, SourceDir: doc.Paths.Source}
			for _, idx := range proj.TargetIndexes {
				if idx < 0 || idx >= len(targets) {
					r.logger.Warn("code model reply references unknown target index")
					continue
				}
				project.Targets = append(project.Targets, targets[idx])
			}
			model.Projects = append(model.Projects, project)
		}
	}
	return model, nil
}

// ReadInputs loads the list of files that fed the last configure, dropping
// the tool's own modules and generated files. Relative paths are resolved
// against the source directory.
func (r *Reader) ReadInputs(binaryDir string) ([]string, error) {
	replyDir := filepath.Join(domain.FileAPIPath(binaryDir), replyDirName)
	ref, err := r.findReply(replyDir, queryCMakeFiles)
	if err != nil {
		return nil, err
	}

	var doc cmakeFilesDoc
	if err := readJSON(filepath.Join(replyDir, ref), &doc); err != nil {
		return nil, err
	}

	var files []string
	for _, input := range doc.Inputs {
		if input.IsCMake || input.IsGenerated {
			continue
		}
		path := input.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(doc.Paths.Source, path)
		}
		files = append(files, path)
	}
	return files, nil
}

// findReply locates the newest index file and resolves the reply reference
// for the given query kind.
func (r *Reader) findReply(replyDir, kind string) (string, error) {
	entries, err := os.ReadDir(replyDir)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrFileAPIReply.Error())
	}

	var indexes []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, indexFilePrefix) && strings.HasSuffix(name, ".json") {
			indexes = append(indexes, name)
		}
	}
	if len(indexes) == 0 {
		return "", domain.Detail(domain.ErrFileAPIReply, "reason", "no index file")
	}
	// Index file names embed a sortable timestamp; the newest wins.
	sort.Strings(indexes)
	indexName := indexes[len(indexes)-1]

	var index indexDoc
	if err := readJSON(filepath.Join(replyDir, indexName), &index); err != nil {
		return "", err
	}

	client, ok := index.Reply[clientName]
	if !ok {
		return "", zerr.With(domain.Detail(domain.ErrFileAPIReply, "reason", "no reply for client"), "index", indexName)
	}
	ref, ok := client[kind]
	if !ok {
		return "", zerr.With(domain.Detail(domain.ErrFileAPIReply, "kind", kind), "reason", "query not answered")
	}
	if ref.Error != "" {
		return "", zerr.With(domain.Detail(domain.ErrFileAPIReply, "kind", kind), "error", ref.Error)
	}
	return ref.JSONFile, nil
}

func (r *Reader) readTarget(replyDir, sourceDir, jsonFile string) (domain.Target, error) {
	var doc targetDoc
	if err := readJSON(filepath.Join(replyDir, jsonFile), &doc); err != nil {
		return domain.Target{}, err
	}
	target := domain.Target{
		Name:      doc.Name,
		Type:      domain.TargetType(doc.Type),
		SourceDir: filepath.Join(sourceDir, doc.Paths.Source),
	}
	for _, artifact := range doc.Artifacts {
		target.Artifacts = append(target.Artifacts, artifact.Path)
	}
	return target, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return zerr.Wrap(err, domain.ErrFileAPIReply.Error())
	}
	if err := json.Unmarshal(data, v); err != nil {
		return zerr.Wrap(err, domain.ErrFileAPIReply.Error())
	}
	return nil
}

type replyRef struct {
	JSONFile string `json:"jsonFile"`
	Error    string `json:"error"`
}

type indexDoc struct {
	Reply map[string]map[string]replyRef `json:"reply"`
}

type codeModelDoc struct {
	Paths struct {
		Source string `json:"source"`
		Build  string `json:"build"`
	} `json:"paths"`
	Configurations []struct {
		Name     string `json:"name"`
		Projects []struct {
			Name          string `json:"name"`
			TargetIndexes []int  `json:"targetIndexes"`
		} `json:"projects"`
		Targets []struct {
			Name     string `json:"name"`
			JSONFile string `json:"jsonFile"`
		} `json:"targets"`
	} `json:"configurations"`
}

type targetDoc struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Paths struct {
		Source string `json:"source"`
	} `json:"paths"`
	Artifacts []struct {
		Path string `json:"path"`
	} `json:"artifacts"`
}

type cmakeFilesDoc struct {
	Paths struct {
		Source string `json:"source"`
		Build  string `json:"build"`
	} `json:"paths"`
	Inputs []struct {
		Path        string `json:"path"`
		IsCMake     bool   `json:"isCMake"`
		IsGenerated bool   `json:"isGenerated"`
	} `json:"inputs"`
}
