// Package constants defines application-wide constants and version information.
package constants

import "runtime"

// AppName names the service in logs, MQTT client IDs and report metadata
const AppName = "coolingload"

// Version holds the application version information
const Version = "1.2-" + runtime.GOOS + "/" + runtime.GOARCH
