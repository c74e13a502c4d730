package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/sir_venger/upload_lite/pkg/humanize"
	"github.com/sir_venger/upload_lite/pkg/uploadclient"
)

const defaultReceiverURL = "http://localhost:8080"

func main() {
	url := flag.String("url", defaultReceiverURL, "receiver base URL")
	id := flag.String("id", "", "upload id (optional, for progress polling)")
	field := flag.String("field", "file", "multipart field name")
	timeout := flag.Duration("timeout", time.Duration(0), "overall upload timeout (0 = none)")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		log.Fatal("usage: uploader [flags] file...")
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	cli := uploadclient.New()
	res, err := cli.Upload(ctx, *url, uploadclient.UploadRequest{
		UploadID: *id,
		Field:    *field,
		Paths:    paths,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("upload %s accepted, %d file(s)\n", res.UploadID, len(res.Files))
	for _, f := range res.Files {
		fmt.Printf("  %s  %s  sha256=%s\n", f.Name, humanize.Bytes(f.Size), f.Sha256)
	}
}
