package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	"github.com/alitto/pond"
	"github.com/urfave/cli/v2"

	gcb "github.com/ajiponzu/gcb-parser"
	"github.com/ajiponzu/gcb-parser/encode"
	"github.com/ajiponzu/gcb-parser/recognize"
)

// loadResult reads and decodes one recognizer-result JSON.
func loadResult(uri string) (*recognize.Result, error) {
	data, err := os.ReadFile(uri)
	if err != nil {
		return nil, err
	}

	var result recognize.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// loadDictionaries loads the CL and CM dictionaries, each only if its URI
// is non-empty. A missing URI leaves that beacon type without a
// dictionary: CL-Beacon frames then keep the analytical decode alone, and
// CM-Beacon frames get no match from the missing table.
func loadDictionaries(clURI, cmURI, configURI string) (map[gcb.BeaconType]*gcb.Dictionary, error) {
	dicts := map[gcb.BeaconType]*gcb.Dictionary{}

	if clURI != "" {
		d, err := gcb.LoadDictionary(gcb.CLBeacon, clURI, configURI)
		if err != nil {
			return nil, err
		}
		dicts[gcb.CLBeacon] = d
	}

	if cmURI != "" {
		d, err := gcb.LoadDictionary(gcb.CMBeacon, cmURI, configURI)
		if err != nil {
			return nil, err
		}
		dicts[gcb.CMBeacon] = d
	}

	return dicts, nil
}

// parseResult runs the full pipeline over a single recognizer-result JSON
// and writes the parsed frame results alongside it.
func parseResult(resultURI, clDictURI, cmDictURI, configURI, outdirURI string, expDuration, exifFps float64, debug bool, workers int) error {
	dir, file := filepath.Split(resultURI)
	if outdirURI == "" {
		outdirURI = dir
	}

	log.Println("Loading recognizer result:", resultURI)
	recognized, err := loadResult(resultURI)
	if err != nil {
		return err
	}

	log.Println("Loading dictionaries")
	dicts, err := loadDictionaries(clDictURI, cmDictURI, configURI)
	if err != nil {
		return err
	}

	log.Println("Preprocessing: remap, luminance statistics, exposure-duration estimation")
	input := gcb.Preprocess(recognized, expDuration, exifFps, debug)
	log.Println("Exposure duration:", input.DTexp, "s")

	log.Println("Running per-frame pipeline")
	tracker := gcb.NewTracker()
	perFrame := gcb.RunPipeline(input.Frames, input.Stats, input.DTexp, dicts, tracker, workers)

	var flat []gcb.FrameResult
	for _, frame := range perFrame {
		flat = append(flat, frame...)
	}

	outURI := filepath.Join(outdirURI, file+"-parsed.json")
	jsn, err := encode.MarshalResults(flat)
	if err != nil {
		return err
	}
	if _, err := encode.WriteJSON(outURI, configURI, jsn); err != nil {
		return err
	}

	log.Println("Wrote", outURI)
	return nil
}

// parseResultList submits every recognizer-result JSON found under uri to
// a fixed worker pool.
func parseResultList(uri, clDictURI, cmDictURI, configURI, outdirURI string, expDuration, exifFps float64, debug bool, workers int) error {
	log.Println("Searching uri:", uri)
	items := gcb.FindDictionaries(uri, configURI, "*.json")
	log.Println("Number of recognizer results to process:", len(items))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	n := runtime.NumCPU() * 2
	pool := pond.New(n, 0, pond.MinWorkers(n), pond.Context(ctx))
	defer pool.StopAndWait()

	for _, name := range items {
		itemURI := name
		pool.Submit(func() {
			if err := parseResult(itemURI, clDictURI, cmDictURI, configURI, outdirURI, expDuration, exifFps, debug, workers); err != nil {
				log.Println("error processing", itemURI, ":", err)
			}
		})
	}

	return nil
}

func main() {
	commonFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "cl-dict-uri",
			Usage: "URI or pathname to the CL-Beacon dictionary JSON.",
		},
		&cli.StringFlag{
			Name:  "cm-dict-uri",
			Usage: "URI or pathname to the CM-Beacon dictionary JSON.",
		},
		&cli.StringFlag{
			Name:  "config-uri",
			Usage: "URI or pathname to a TileDB config file.",
		},
		&cli.StringFlag{
			Name:  "outdir-uri",
			Usage: "URI or pathname to an output directory.",
		},
		&cli.Float64Flag{
			Name:  "exp-duration",
			Usage: "Exposure duration in seconds. 0 estimates it from the frame data.",
			Value: 0,
		},
		&cli.Float64Flag{
			Name:  "exif-fps",
			Usage: "Camera frame rate, used to clamp the estimated exposure duration.",
			Value: 30,
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Print per-LED histogram diagnostics to stderr.",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Number of worker goroutines for the per-frame pipeline.",
			Value: runtime.NumCPU(),
		},
	}

	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name:  "parse",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "result-uri",
						Usage: "URI or pathname to a recognizer-result JSON file.",
					},
				}, commonFlags...),
				Action: func(cCtx *cli.Context) error {
					return parseResult(
						cCtx.String("result-uri"),
						cCtx.String("cl-dict-uri"),
						cCtx.String("cm-dict-uri"),
						cCtx.String("config-uri"),
						cCtx.String("outdir-uri"),
						cCtx.Float64("exp-duration"),
						cCtx.Float64("exif-fps"),
						cCtx.Bool("debug"),
						cCtx.Int("workers"),
					)
				},
			},
			{
				Name:  "parse-trawl",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "uri",
						Usage: "URI or pathname to a directory containing recognizer-result JSON files.",
					},
				}, commonFlags...),
				Action: func(cCtx *cli.Context) error {
					return parseResultList(
						cCtx.String("uri"),
						cCtx.String("cl-dict-uri"),
						cCtx.String("cm-dict-uri"),
						cCtx.String("config-uri"),
						cCtx.String("outdir-uri"),
						cCtx.Float64("exp-duration"),
						cCtx.Float64("exif-fps"),
						cCtx.Bool("debug"),
						cCtx.Int("workers"),
					)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
