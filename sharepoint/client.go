package sharepoint

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/pkg/errors"
	"github.com/relloyd/lakepipe/logger"
	"go.uber.org/multierr"
)

// Writer stores downloaded files.
// onelake.Uploader and LocalWriter implement it.
type Writer interface {
	Upload(ctx context.Context, r io.Reader, destFolder string, destFileName string) (string, error)
}

// FetchResult describes one copied file.
type FetchResult struct {
	Name   string
	Remote string
	Err    error
}

// Client copies files out of a SharePoint document library using the REST API.
type Client struct {
	log      logger.Logger
	settings Settings
	site     *url.URL
	pipeline runtime.Pipeline
	writer   Writer
}

// NewClient creates an Azure AD credential from s and returns a Client writing to w.
func NewClient(log logger.Logger, s Settings, w Writer) (*Client, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	var cred azcore.TokenCredential
	var err error
	if s.usesPassword() {
		cred, err = azidentity.NewUsernamePasswordCredential(s.TenantID, s.ClientID, s.Username, s.Password, nil)
	} else {
		cred, err = azidentity.NewClientSecretCredential(s.TenantID, s.ClientID, s.ClientSecret, nil)
	}
	if err != nil {
		return nil, errors.Wrap(err, "error creating SharePoint credential")
	}
	return NewClientWithCredential(log, s, cred, nil, w)
}

// NewClientWithCredential returns a Client that authenticates with cred.
// Requests are sent with httpClient, or the azcore default transport when it is nil.
func NewClientWithCredential(log logger.Logger, s Settings, cred azcore.TokenCredential, httpClient *http.Client, w Writer) (*Client, error) {
	site, err := url.Parse(strings.TrimRight(s.SiteURL, "/"))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid site URL %q", s.SiteURL)
	}
	if site.Scheme == "" || site.Host == "" {
		return nil, fmt.Errorf("site URL %q must be absolute", s.SiteURL)
	}
	opts := &policy.ClientOptions{}
	opts.Retry.MaxRetries = -1 // no retries
	if httpClient != nil {
		opts.Transport = httpClient
	}
	scope := fmt.Sprintf("%v://%v/.default", site.Scheme, site.Host)
	pl := runtime.NewPipeline("sharepoint", "v1.0.0", runtime.PipelineOptions{
		PerRetry: []policy.Policy{runtime.NewBearerTokenPolicy(cred, []string{scope}, nil)},
	}, opts)
	return &Client{log: log, settings: s, site: site, pipeline: pl, writer: w}, nil
}

// FetchSingle copies sourceFolder/fileName from the document library to destFolder/fileName.
// sourceFolder is relative to the library, e.g. "/DATA/2025".
func (c *Client) FetchSingle(ctx context.Context, fileName string, sourceFolder string, destFolder string) (FetchResult, error) {
	res := FetchResult{Name: fileName}
	c.log.Info("Fetching ", c.fileServerRelativeURL(sourceFolder, fileName))
	body, err := c.download(ctx, sourceFolder, fileName)
	if err != nil {
		res.Err = err
		return res, err
	}
	defer func() {
		_ = body.Close()
	}()
	res.Remote, err = c.writer.Upload(ctx, body, destFolder, fileName)
	if err != nil {
		res.Err = errors.Wrapf(err, "error writing %v", fileName)
		return res, res.Err
	}
	c.log.Info("Copied ", fileName, " to ", res.Remote)
	return res, nil
}

// FetchAll copies every file in sourceFolder to destFolder, one at a time.
// All files are attempted; the returned error combines every failure.
func (c *Client) FetchAll(ctx context.Context, sourceFolder string, destFolder string) ([]FetchResult, error) {
	names, err := c.ListFiles(ctx, sourceFolder)
	if err != nil {
		return nil, err
	}
	c.log.Info("Found ", len(names), " files in ", c.folderServerRelativeURL(sourceFolder))
	results := make([]FetchResult, 0, len(names))
	var errs error
	for _, name := range names {
		res, err := c.FetchSingle(ctx, name, sourceFolder, destFolder)
		if err != nil {
			c.log.Error("Error fetching ", name, ": ", err)
			errs = multierr.Append(errs, err)
		}
		results = append(results, res)
	}
	return results, errs
}

// ListFiles returns the names of the files directly inside sourceFolder.
func (c *Client) ListFiles(ctx context.Context, sourceFolder string) ([]string, error) {
	u := c.apiURL("GetFolderByServerRelativeUrl(@f)/Files", c.folderServerRelativeURL(sourceFolder))
	resp, err := c.get(ctx, u, "application/json;odata=nometadata")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	var listing struct {
		Value []struct {
			Name string `json:"Name"`
		} `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, errors.Wrap(err, "error decoding SharePoint file listing")
	}
	names := make([]string, 0, len(listing.Value))
	for _, v := range listing.Value {
		names = append(names, v.Name)
	}
	return names, nil
}

func (c *Client) download(ctx context.Context, sourceFolder string, fileName string) (io.ReadCloser, error) {
	u := c.apiURL("GetFileByServerRelativeUrl(@f)/$value", c.fileServerRelativeURL(sourceFolder, fileName))
	resp, err := c.get(ctx, u, "application/octet-stream")
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// get sends an authenticated GET and returns the response for a 200 status.
// The body is left unread for the caller to stream.
func (c *Client) get(ctx context.Context, u string, accept string) (*http.Response, error) {
	req, err := runtime.NewRequest(ctx, http.MethodGet, u)
	if err != nil {
		return nil, errors.Wrapf(err, "error creating request for %v", u)
	}
	req.Raw().Header.Set("Accept", accept)
	runtime.SkipBodyDownload(req)
	resp, err := c.pipeline.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "error calling %v", u)
	}
	if !runtime.HasStatusCode(resp, http.StatusOK) {
		err := runtime.NewResponseError(resp)
		_ = resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

// apiURL builds a REST URL passing value through the @f parameter alias.
func (c *Client) apiURL(resource string, value string) string {
	return fmt.Sprintf("%v/_api/web/%v?@f=%v", c.site.String(), resource, url.QueryEscape(odataString(value)))
}

func (c *Client) folderServerRelativeURL(sourceFolder string) string {
	return path.Join("/", c.site.Path, c.settings.DocumentLibrary, sourceFolder)
}

func (c *Client) fileServerRelativeURL(sourceFolder string, fileName string) string {
	return path.Join(c.folderServerRelativeURL(sourceFolder), fileName)
}

// odataString quotes s as an OData string literal.
func odataString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
