package sharepoint

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/relloyd/lakepipe/helper"
)

// Settings identify a SharePoint document library and the Azure AD identity used to read it.
// Username and Password select the user credential; otherwise ClientSecret is used.
type Settings struct {
	SiteURL         string `errorTxt:"sharepoint_settings.site_url" mandatory:"yes"`
	DocumentLibrary string `errorTxt:"sharepoint_settings.document_library" mandatory:"yes"`
	TenantID        string `errorTxt:"sharepoint_settings.tenant_id (or FABRIC_TENANT_ID)" mandatory:"yes"`
	ClientID        string `errorTxt:"FABRIC_CLIENT_ID" mandatory:"yes"`
	ClientSecret    string
	Username        string
	Password        string
}

// Validate reports every missing value in one error.
func (s Settings) Validate() error {
	missing := make([]string, 0)
	helper.GetStructErrorTxt4UnsetFields(s, &missing)
	if s.Username == "" && s.Password == "" && s.ClientSecret == "" {
		missing = append(missing, "SHAREPOINT_USERNAME and SHAREPOINT_PASSWORD (or FABRIC_CLIENT_SECRET)")
	} else if (s.Username == "") != (s.Password == "") {
		missing = append(missing, "both SHAREPOINT_USERNAME and SHAREPOINT_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("please supply values for %v", strings.Join(missing, ", "))
	}
	if _, err := url.Parse(s.SiteURL); err != nil {
		return fmt.Errorf("invalid sharepoint_settings.site_url: %v", err)
	}
	return nil
}

func (s Settings) usesPassword() bool {
	return s.Username != "" && s.Password != ""
}

// String hides the secrets.
func (s Settings) String() string {
	return fmt.Sprintf("{SiteURL:%v DocumentLibrary:%v TenantID:%v ClientID:%v Username:%v}",
		s.SiteURL, s.DocumentLibrary, s.TenantID, s.ClientID, s.Username)
}
