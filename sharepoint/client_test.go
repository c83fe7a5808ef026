package sharepoint

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/relloyd/lakepipe/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCredential struct {
	scopes []string
}

func (f *fakeCredential) GetToken(ctx context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	f.scopes = opts.Scopes
	return azcore.AccessToken{Token: "tok", ExpiresOn: time.Now().Add(time.Hour)}, nil
}

type memWriter struct {
	files map[string]string
	fail  string
}

func (m *memWriter) Upload(ctx context.Context, r io.Reader, destFolder string, destFileName string) (string, error) {
	if destFileName == m.fail {
		return "", errors.New("write refused")
	}
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return "", err
	}
	key := destFolder + "/" + destFileName
	m.files[key] = string(b)
	return "mem://" + key, nil
}

// newTestSite serves a document library folder "/DATA" containing files.
func newTestSite(t *testing.T, files map[string]string) *httptest.Server {
	return httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		f := r.URL.Query().Get("@f")
		switch r.URL.Path {
		case "/sites/Team/_api/web/GetFolderByServerRelativeUrl(@f)/Files":
			if f != "'/sites/Team/Shared Documents/DATA'" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			names := make([]string, 0)
			for _, n := range []string{"a.xlsx", "b.csv", "o'brien.txt"} {
				if _, ok := files[n]; ok {
					names = append(names, `{"Name":"`+n+`"}`)
				}
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"value":[` + strings.Join(names, ",") + `]}`))
		case "/sites/Team/_api/web/GetFileByServerRelativeUrl(@f)/$value":
			prefix := "'/sites/Team/Shared Documents/DATA/"
			if !strings.HasPrefix(f, prefix) {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			name := strings.ReplaceAll(strings.TrimSuffix(strings.TrimPrefix(f, prefix), "'"), "''", "'")
			content, ok := files[name]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte("file not found"))
				return
			}
			_, _ = w.Write([]byte(content))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
}

func newTestClient(t *testing.T, srv *httptest.Server, w Writer) (*Client, *fakeCredential) {
	cred := &fakeCredential{}
	s := Settings{
		SiteURL:         srv.URL + "/sites/Team/",
		DocumentLibrary: "Shared Documents",
		TenantID:        "tenant",
		ClientID:        "client",
		ClientSecret:    "secret",
	}
	c, err := NewClientWithCredential(logger.NewLogger("lakepipe-test", "error", false), s, cred, srv.Client(), w)
	require.NoError(t, err)
	return c, cred
}

func TestFetchSingle(t *testing.T) {
	srv := newTestSite(t, map[string]string{"a.xlsx": "AAA"})
	defer srv.Close()
	w := &memWriter{files: map[string]string{}}
	c, cred := newTestClient(t, srv, w)

	res, err := c.FetchSingle(context.Background(), "a.xlsx", "/DATA", "sharepoint/data")
	require.NoError(t, err)
	assert.Equal(t, "mem://sharepoint/data/a.xlsx", res.Remote)
	assert.Equal(t, "AAA", w.files["sharepoint/data/a.xlsx"])
	assert.Equal(t, []string{srv.URL + "/.default"}, cred.scopes)

	_, err = c.FetchSingle(context.Background(), "missing.xlsx", "/DATA", "sharepoint/data")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchAll(t *testing.T) {
	srv := newTestSite(t, map[string]string{"a.xlsx": "AAA", "b.csv": "BBB", "o'brien.txt": "OOO"})
	defer srv.Close()
	w := &memWriter{files: map[string]string{}, fail: "b.csv"}
	c, _ := newTestClient(t, srv, w)

	results, err := c.FetchAll(context.Background(), "DATA", "dest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b.csv")
	require.Len(t, results, 3)
	// The failure did not stop the remaining files.
	assert.Equal(t, "AAA", w.files["dest/a.xlsx"])
	assert.Equal(t, "OOO", w.files["dest/o'brien.txt"])
	assert.Error(t, results[1].Err)
}

func TestGetSendsAcceptHeaderWithoutRetries(t *testing.T) {
	calls := 0
	var accept string
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		accept = r.Header.Get("Accept")
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("busy"))
	}))
	defer srv.Close()
	c, _ := newTestClient(t, srv, &memWriter{files: map[string]string{}})

	_, err := c.ListFiles(context.Background(), "/DATA")
	require.Error(t, err)
	var respErr *azcore.ResponseError
	require.True(t, errors.As(err, &respErr), "expected an azcore.ResponseError, got %T", err)
	assert.Equal(t, http.StatusServiceUnavailable, respErr.StatusCode)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "application/json;odata=nometadata", accept)
}

func TestListFilesBadFolder(t *testing.T) {
	srv := newTestSite(t, map[string]string{})
	defer srv.Close()
	c, _ := newTestClient(t, srv, &memWriter{files: map[string]string{}})
	_, err := c.ListFiles(context.Background(), "/OTHER")
	assert.Error(t, err)
}

func TestSettingsValidate(t *testing.T) {
	s := Settings{SiteURL: "https://x.sharepoint.com/sites/a", DocumentLibrary: "Shared Documents", TenantID: "t", ClientID: "c"}
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHAREPOINT_USERNAME")
	s.Username = "me@example.com"
	assert.Error(t, s.Validate())
	s.Password = "pw"
	assert.NoError(t, s.Validate())
	assert.True(t, s.usesPassword())
	assert.NotContains(t, s.String(), "pw")
	s = Settings{ClientSecret: "x"}
	err = s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sharepoint_settings.site_url")
	assert.Contains(t, err.Error(), "FABRIC_CLIENT_ID")
}

func TestLocalWriter(t *testing.T) {
	dir := t.TempDir()
	w := LocalWriter{Dir: dir}
	target, err := w.Upload(context.Background(), bytes.NewBufferString("hello"), "a/b", "c.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a", "b", "c.txt"), target)
	b, err := ioutil.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
	entries, err := os.ReadDir(filepath.Join(dir, "a", "b"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
