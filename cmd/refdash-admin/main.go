// Command refdash-admin is the operator toolbox for the referral dashboard
// backend: key hashing, TOTP enrolment and approver actions over the API.
package main

import (
	"os"

	"github.com/alecthomas/kingpin/v2"
)

// Version is provided at compile time
var Version = "dev"

func main() {
	app := kingpin.New("refdash-admin", "Operator tools for the referral dashboard backend")
	app.Version(Version)

	g := configureGlobals(app)
	configureHashKeyCommand(app)
	configureTOTPCommand(app)
	configureDecideCommand(app, g, "approve", "accept", "Accept a pending login attempt")
	configureDecideCommand(app, g, "reject", "reject", "Reject a pending login attempt")
	configureStatusCommand(app, g)
	configureLoginCommand(app, g)
	configureHealthCommand(app, g)

	kingpin.MustParse(app.Parse(os.Args[1:]))
}
