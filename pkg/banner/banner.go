package banner

import (
	"fmt"

	"huddle/pkg/config"
)

const banner = `
██╗  ██╗██╗   ██╗██████╗ ██████╗ ██╗     ███████╗
██║  ██║██║   ██║██╔══██╗██╔══██╗██║     ██╔════╝
███████║██║   ██║██║  ██║██║  ██║██║     █████╗
██╔══██║██║   ██║██║  ██║██║  ██║██║     ██╔══╝
██║  ██║╚██████╔╝██████╔╝██████╔╝███████╗███████╗
╚═╝  ╚═╝ ╚═════╝ ╚═════╝ ╚═════╝ ╚══════╝╚══════╝
`

// PrintWithEff prints the banner using an EffectiveConfigResult which
// provides the listen address, snapshot path and config source.
func PrintWithEff(eff config.EffectiveConfigResult, version string) {
	addr := eff.Addr
	if addr == "" && eff.Config != nil {
		addr = eff.Config.Addr()
	}
	src := eff.Source
	if src == "" {
		src = "flags"
	}

	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", addr)
	fmt.Printf("DB Path:  %s\n", eff.DBPath)
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	fmt.Printf("Config: %s\n", src)

	fmt.Println("\n== Examples ===================================================")
	fmt.Println("curl -X POST 'http://<host>:<port>/v1/auth/register' -d '{\"email\":\"a@b.com\",\"password\":\"secret\",\"name_first\":\"A\",\"name_last\":\"B\"}'")
	fmt.Println("curl -H 'Authorization: Bearer <token>' 'http://<host>:<port>/v1/channels'")
	fmt.Println("docs: http://<host>:<port>/docs/")

	fmt.Println("\n== Production? =================================================")
	if eff.Config != nil && eff.Config.Server.TLS.CertFile != "" && eff.Config.Server.TLS.KeyFile != "" {
		fmt.Println("- TLS: configured")
	} else {
		fmt.Println("- TLS: unconfigured")
	}
	if eff.DBPath != "" {
		fmt.Printf("- Snapshots: %s\n", eff.DBPath)
	} else {
		fmt.Println("- Snapshots: not set (use --db or HUDDLE_DB_PATH; state is memory-only)")
	}
	if eff.Config != nil && eff.Config.Snapshot.Enabled {
		if eff.Config.Snapshot.Cron != "" {
			fmt.Printf("- Snapshot job: enabled (cron=%s)\n", eff.Config.Snapshot.Cron)
		} else {
			fmt.Println("- Snapshot job: enabled")
		}
	} else {
		fmt.Println("- Snapshot job: disabled")
	}

	fmt.Println("\n== Logs: =================================================")
}
