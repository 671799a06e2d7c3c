package management

import "strings"

// Severity groups event type codes for display.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityFailure
)

// eventTypes holds the descriptions of the most common event type codes.
var eventTypes = map[string]string{
	"s":         "Success Login",
	"ss":        "Success Signup",
	"slo":       "Success Logout",
	"sapi":      "Success API Operation",
	"scp":       "Success Change Password",
	"scpr":      "Success Change Password Request",
	"sce":       "Success Change Email",
	"sv":        "Success Verification Email",
	"svr":       "Success Verification Email Request",
	"seacft":    "Success Exchange (Authorization Code for Access Token)",
	"seccft":    "Success Exchange (Client Credentials for Access Token)",
	"sertft":    "Success Exchange (Refresh Token for Access Token)",
	"scoa":      "Success Cross Origin Authentication",
	"sd":        "Success Delegation",
	"f":         "Failed Login",
	"fp":        "Failed Login (Incorrect Password)",
	"fu":        "Failed Login (Invalid Email/Username)",
	"fs":        "Failed Signup",
	"fapi":      "Failed API Operation",
	"fcp":       "Failed Change Password",
	"fcpr":      "Failed Change Password Request",
	"fce":       "Failed Change Email",
	"fv":        "Failed Verification Email",
	"feacft":    "Failed Exchange (Authorization Code for Access Token)",
	"feccft":    "Failed Exchange (Client Credentials for Access Token)",
	"fertft":    "Failed Exchange (Refresh Token for Access Token)",
	"fcoa":      "Failed Cross Origin Authentication",
	"fd":        "Failed Delegation",
	"w":         "Warnings During Login",
	"limit_wc":  "Blocked Account",
	"limit_mu":  "Blocked IP Address",
	"pwd_leak":  "Breached Password",
	"du":        "Deleted User",
	"ublkdu":    "User Login Block Released",
	"api_limit": "Rate Limit On The Authentication Or Management APIs",
}

// TypeDescription returns the description of an event type code, or the code
// itself when unknown.
func TypeDescription(code string) string {
	if d, ok := eventTypes[code]; ok {
		return d
	}
	return code
}

// TypeSeverity classifies an event type code.
func TypeSeverity(code string) Severity {
	switch {
	case code == "w", strings.HasPrefix(code, "limit_"), code == "pwd_leak", code == "api_limit":
		return SeverityWarning
	case strings.HasPrefix(code, "f"):
		return SeverityFailure
	case strings.HasPrefix(code, "s"):
		return SeveritySuccess
	default:
		return SeverityInfo
	}
}
