package devstorage

import (
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"git.shiro.blog/shiro/shiro/src/logging"
	"git.shiro.blog/shiro/shiro/src/website"
	"github.com/spf13/cobra"
)

/*
A tiny S3-alike for local development, so that signed image uploads work
without a real bucket. Point the storage endpoint at this server and it will
happily accept the presigned PUTs, ignoring the signatures entirely.

Only the handful of operations the blog performs are implemented.
*/

func init() {
	devStorageCommand := &cobra.Command{
		Use:   "devstorage [storage folder]",
		Short: "Run a local object storage server that stores in the filesystem",
		Run: func(cmd *cobra.Command, args []string) {
			targetFolder := "./tmp/storage"
			if len(args) > 0 {
				targetFolder = args[0]
			}
			if err := os.MkdirAll(targetFolder, fs.ModePerm); err != nil {
				panic(err)
			}

			logging.Info().Str("folder", targetFolder).Msg("Serving local object storage on :9002")
			err := http.ListenAndServe(":9002", &server{targetFolder: targetFolder})
			logging.Fatal().Err(err).Msg("Local object storage server shut down")
		},
	}

	website.WebsiteCommand.AddCommand(devStorageCommand)
}

type server struct {
	targetFolder string
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	bucket, key := bucketAndKey(r)
	logging.Info().
		Str("method", r.Method).
		Str("bucket", bucket).
		Str("key", key).
		Msg("Local object storage request")

	if bucket == "" || strings.Contains(key, "..") {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	objectPath := filepath.Join(s.targetFolder, bucket, key)

	switch r.Method {
	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			panic(err)
		}
		if err := os.MkdirAll(filepath.Dir(objectPath), fs.ModePerm); err != nil {
			panic(err)
		}
		if err := os.WriteFile(objectPath, body, fs.ModePerm); err != nil {
			panic(err)
		}
		w.Header().Set("Location", fmt.Sprintf("/%s", bucket))
	case http.MethodGet, http.MethodHead:
		fileBytes, err := os.ReadFile(objectPath)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Method == http.MethodGet {
			w.Write(fileBytes)
		}
	case http.MethodDelete:
		// Deleting something that isn't there is fine, same as real S3.
		os.Remove(objectPath)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Keys contain slashes; the first path segment is the bucket and the rest is
// the key.
func bucketAndKey(r *http.Request) (string, string) {
	path := strings.TrimPrefix(r.URL.Path, "/")
	slashIdx := strings.IndexByte(path, '/')
	if slashIdx == -1 {
		return path, ""
	}
	return path[:slashIdx], path[slashIdx+1:]
}
