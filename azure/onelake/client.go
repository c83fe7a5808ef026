package onelake

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/pkg/errors"
	"github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/helper"
)

// Settings identify a lakehouse and the service principal used to write to it.
type Settings struct {
	TenantID     string `errorTxt:"FABRIC_TENANT_ID" mandatory:"yes"`
	ClientID     string `errorTxt:"FABRIC_CLIENT_ID" mandatory:"yes"`
	ClientSecret string `errorTxt:"FABRIC_CLIENT_SECRET" mandatory:"yes"`
	WorkspaceID  string `errorTxt:"fabric_lakehouse_settings.workspace_id" mandatory:"yes"`
	LakehouseID  string `errorTxt:"fabric_lakehouse_settings.lakehouse_id" mandatory:"yes"`
	Endpoint     string
}

// Complete is true when every value needed to upload is present.
func (s Settings) Complete() bool {
	return helper.ValidateStructIsPopulated(s) == nil
}

// Missing lists the names of the values that are not set.
func (s Settings) Missing() []string {
	missing := make([]string, 0)
	helper.GetStructErrorTxt4UnsetFields(s, &missing)
	return missing
}

// String hides the client secret.
func (s Settings) String() string {
	return fmt.Sprintf("{TenantID:%v ClientID:%v ClientSecret:*** WorkspaceID:%v LakehouseID:%v Endpoint:%v}",
		s.TenantID, s.ClientID, s.WorkspaceID, s.LakehouseID, s.endpoint())
}

func (s Settings) endpoint() string {
	if s.Endpoint == "" {
		return constants.DefaultOneLakeEndpoint
	}
	return strings.TrimRight(s.Endpoint, "/")
}

// blobAPI is the subset of *azblob.Client used here.
type blobAPI interface {
	UploadFile(ctx context.Context, containerName string, blobName string, file *os.File, o *azblob.UploadFileOptions) (azblob.UploadFileResponse, error)
	UploadStream(ctx context.Context, containerName string, blobName string, body io.Reader, o *azblob.UploadStreamOptions) (azblob.UploadStreamResponse, error)
}

// Client uploads to OneLake through its Blob API.
// The workspace is the container and blobs live under {lakehouse}/Files.
type Client struct {
	settings Settings
	api      blobAPI
}

// NewClient authenticates with the service principal client secret.
func NewClient(s Settings) (*Client, error) {
	if err := helper.ValidateStructIsPopulated(s); err != nil {
		return nil, errors.Wrap(err, "incomplete lakehouse settings")
	}
	cred, err := azidentity.NewClientSecretCredential(s.TenantID, s.ClientID, s.ClientSecret, nil)
	if err != nil {
		return nil, errors.Wrap(err, "error creating client secret credential")
	}
	return NewClientWithCredential(s, cred)
}

// NewClientWithCredential creates a Client using any Azure token credential.
func NewClientWithCredential(s Settings, cred azcore.TokenCredential) (*Client, error) {
	api, err := azblob.NewClient(s.endpoint(), cred, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "error creating blob client for %v", s.endpoint())
	}
	return &Client{settings: s, api: api}, nil
}

// BlobName returns the name of the blob for destFolder/destFileName inside the workspace container.
func (c *Client) BlobName(destFolder string, destFileName string) string {
	parts := []string{c.settings.LakehouseID, constants.LakehouseFilesRoot}
	if f := strings.Trim(destFolder, "/"); f != "" {
		parts = append(parts, f)
	}
	parts = append(parts, strings.TrimLeft(destFileName, "/"))
	return strings.Join(parts, "/")
}

func (c *Client) RemotePath(destFolder string, destFileName string) string {
	return fmt.Sprintf("%v/%v/%v", c.settings.endpoint(), c.settings.WorkspaceID, c.BlobName(destFolder, destFileName))
}

func (c *Client) UploadFile(ctx context.Context, localPath string, destFolder string, destFileName string) (string, error) {
	remote := c.RemotePath(destFolder, destFileName)
	f, err := os.Open(localPath)
	if err != nil {
		return remote, errors.Wrapf(err, "error opening %q for upload", localPath)
	}
	defer func() {
		_ = f.Close()
	}()
	if _, err = c.api.UploadFile(ctx, c.settings.WorkspaceID, c.BlobName(destFolder, destFileName), f, nil); err != nil {
		return remote, describeError(err, remote)
	}
	return remote, nil
}

func (c *Client) Upload(ctx context.Context, r io.Reader, destFolder string, destFileName string) (string, error) {
	remote := c.RemotePath(destFolder, destFileName)
	if _, err := c.api.UploadStream(ctx, c.settings.WorkspaceID, c.BlobName(destFolder, destFileName), r, nil); err != nil {
		return remote, describeError(err, remote)
	}
	return remote, nil
}

// describeError adds the HTTP status and service error code where Azure supplied them.
func describeError(err error, remote string) error {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return errors.Wrapf(err, "upload to %v failed with status %v (%v)", remote, respErr.StatusCode, respErr.ErrorCode)
	}
	return errors.Wrapf(err, "upload to %v failed", remote)
}
