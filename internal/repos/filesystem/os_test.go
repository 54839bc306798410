package filesystem_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitstatus/internal/repos/filesystem"
)

func TestOSFileSystemReadsDirectoriesInNameOrder(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	for _, directoryName := range []string{"charlie", "alpha", "bravo"} {
		require.NoError(testInstance, os.Mkdir(filepath.Join(rootDirectory, directoryName), 0o755))
	}

	fileSystem := filesystem.OSFileSystem{}
	entries, readError := fileSystem.ReadDir(rootDirectory)
	require.NoError(testInstance, readError)

	entryNames := make([]string, 0, len(entries))
	for _, entry := range entries {
		entryNames = append(entryNames, entry.Name())
	}
	require.Equal(testInstance, []string{"alpha", "bravo", "charlie"}, entryNames)

	info, statError := fileSystem.Stat(filepath.Join(rootDirectory, "alpha"))
	require.NoError(testInstance, statError)
	require.True(testInstance, info.IsDir())
}
