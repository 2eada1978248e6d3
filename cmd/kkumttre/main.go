package main

import (
	"fmt"
	"os"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:])
	case "export":
		err = runExport(os.Args[2:])
	case "import":
		err = runImport(os.Args[2:])
	case "version":
		fmt.Printf("kkumttre %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`kkumttre - the 꿈뜨레 community site

Usage:
  kkumttre <command> [flags]

Commands:
  serve         Run the web server
  export        Write the post snapshot as JSON
  import        Replace all posts with a JSON snapshot
  version       Print the version
  help          Show this help message

Flags:
  -config <file>   YAML config file (default $KKUMTTRE_CONFIG)
  -o <file>        export: output file (default stdout)
  -i <file>        import: input file (default stdin)

Examples:
  kkumttre serve -config kkumttre.yaml
  kkumttre export -o posts.json
  KKUMTTRE_STORAGE=redis kkumttre import -i posts.json`)
}
