package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/temirov/gitstatus/internal/repos/filesystem"
)

const (
	gitMetadataDirectoryNameConstant = ".git"
	rootReadErrorTemplateConstant    = "unable to read repository root %s: %w"
	rootNotDirectoryTemplateConstant = "%w: %s"
)

// ErrRootNotDirectory indicates the discovery root exists but is not a directory.
var ErrRootNotDirectory = errors.New("repository root is not a directory")

// FileSystem exposes the filesystem reads required for discovery.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadDir(path string) ([]fs.DirEntry, error)
}

// FilesystemRepositoryDiscoverer locates git repositories directly under a root directory.
type FilesystemRepositoryDiscoverer struct {
	fileSystem FileSystem
}

// NewFilesystemRepositoryDiscoverer constructs a discoverer backed by the operating system.
func NewFilesystemRepositoryDiscoverer() *FilesystemRepositoryDiscoverer {
	return NewFilesystemRepositoryDiscovererWithFileSystem(filesystem.OSFileSystem{})
}

// NewFilesystemRepositoryDiscovererWithFileSystem constructs a discoverer over the provided filesystem.
func NewFilesystemRepositoryDiscovererWithFileSystem(fileSystem FileSystem) *FilesystemRepositoryDiscoverer {
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}
	return &FilesystemRepositoryDiscoverer{fileSystem: fileSystem}
}

// DiscoverRepositories returns the immediate subdirectories of root that contain a .git directory.
// Entries are returned in lexical order. Entries that cannot be inspected are skipped; only
// failures on root itself are reported.
func (discoverer *FilesystemRepositoryDiscoverer) DiscoverRepositories(root string) ([]string, error) {
	rootInfo, rootStatError := discoverer.fileSystem.Stat(root)
	if rootStatError != nil {
		return nil, fmt.Errorf(rootReadErrorTemplateConstant, root, rootStatError)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf(rootNotDirectoryTemplateConstant, ErrRootNotDirectory, root)
	}

	entries, readError := discoverer.fileSystem.ReadDir(root)
	if readError != nil {
		return nil, fmt.Errorf(rootReadErrorTemplateConstant, root, readError)
	}

	repositories := make([]string, 0, len(entries))
	for _, entry := range entries {
		candidatePath := filepath.Join(root, entry.Name())
		if discoverer.isRepository(candidatePath) {
			repositories = append(repositories, candidatePath)
		}
	}
	return repositories, nil
}

func (discoverer *FilesystemRepositoryDiscoverer) isRepository(candidatePath string) bool {
	candidateInfo, candidateError := discoverer.fileSystem.Stat(candidatePath)
	if candidateError != nil || !candidateInfo.IsDir() {
		return false
	}
	metadataInfo, metadataError := discoverer.fileSystem.Stat(filepath.Join(candidatePath, gitMetadataDirectoryNameConstant))
	if metadataError != nil {
		return false
	}
	return metadataInfo.IsDir()
}
