package models

import "encoding/xml"

// AccountList wraps a list of accounts for XML rendering, which needs a
// single root element. JSON responses use the bare slice.
type AccountList struct {
	XMLName  xml.Name  `xml:"comptes"`
	Accounts []Account `xml:"compte"`
}
