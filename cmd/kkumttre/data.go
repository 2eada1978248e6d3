package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kkumttre/kkumttre/board"
)

func runExport(args []string) error {
	var out string
	ctx := context.Background()
	app, err := loadApp(ctx, "export", args, func(fs *flag.FlagSet) {
		fs.StringVar(&out, "o", "", "output file (default stdout)")
	})
	if err != nil {
		return err
	}
	defer app.Close()

	data, err := app.Board.Snapshot()
	if err != nil {
		return err
	}
	if out == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	app.Log.WithField("posts", len(app.Board.All())).Infof("exported to %s", out)
	return nil
}

func runImport(args []string) error {
	var in string
	ctx := context.Background()
	app, err := loadApp(ctx, "import", args, func(fs *flag.FlagSet) {
		fs.StringVar(&in, "i", "", "input file (default stdin)")
	})
	if err != nil {
		return err
	}
	defer app.Close()

	var data []byte
	if in == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(in)
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	posts, err := board.DecodeSnapshot(data)
	if err != nil {
		return err
	}
	if err := app.Board.Replace(ctx, posts); err != nil {
		return err
	}
	app.Log.WithField("posts", len(posts)).Info("import complete")
	return nil
}
