package controllers

import (
	ssV1 "boxdiff/api/v1"
	"boxdiff/internal/diff/box"
	"boxdiff/internal/pipeline"
	"fmt"
	"os"
	"strconv"
	"strings"

	coreV1 "k8s.io/api/core/v1"
)

func toBoxes(boxes []box.BoundingBox) []ssV1.Box {
	result := make([]ssV1.Box, 0, len(boxes))
	for _, b := range boxes {
		result = append(result, ssV1.Box{
			X:         b.X,
			Y:         b.Y,
			Width:     b.Width,
			Height:    b.Height,
			DiffScore: b.DiffScore,
			Pixels:    b.Pixels,
		})
	}
	return result
}

func toDiffResult(result *pipeline.Result) ssV1.DiffResult {
	return ssV1.DiffResult{
		BaselineURL:  result.BaselineURL,
		TargetURL:    result.TargetURL,
		AnnotatedURL: result.AnnotatedURL,
		ImageWidth:   result.ImageWidth,
		ImageHeight:  result.ImageHeight,
		Boxes:        toBoxes(result.Boxes),
	}
}

func parameterArgs(p ssV1.DiffParameters) []string {
	var args []string
	if p.Threshold != nil {
		args = append(args, "--threshold", strconv.FormatFloat(*p.Threshold, 'g', -1, 64))
	}
	if p.MinBoxArea != nil {
		args = append(args, "--min-box-area", strconv.Itoa(*p.MinBoxArea))
	}
	if p.MinClusterPixels != nil {
		args = append(args, "--min-cluster-pixels", strconv.Itoa(*p.MinClusterPixels))
	}
	return args
}

func captureArgs(maskSelectors []string, headers map[string]string) []string {
	var args []string
	if len(maskSelectors) > 0 {
		args = append(args, "--mask-selectors", strings.Join(maskSelectors, ","))
	}
	for key, value := range headers {
		args = append(args, "-H", fmt.Sprintf("%s: %s", key, value))
	}
	return args
}

func workerEnv() []coreV1.EnvVar {
	env := []coreV1.EnvVar{
		{
			Name:  "STORAGE_BACKEND",
			Value: "s3",
		},
	}
	for _, name := range []string{
		"S3_BUCKET",
		"S3_ENDPOINT_URL",
		"AWS_REGION",
		"AWS_ACCESS_KEY_ID",
		"AWS_SECRET_ACCESS_KEY",
		"CHROME_DEVTOOLS_PROTOCOL_URL",
	} {
		if value, ok := os.LookupEnv(name); ok {
			env = append(env, coreV1.EnvVar{Name: name, Value: value})
		}
	}
	return env
}

// truncateName keeps generated object names inside the 63 character label limit.
func truncateName(name string, suffixLength int) string {
	if limit := 63 - suffixLength; len(name) > limit {
		return strings.TrimRight(name[:limit], "-.")
	}
	return name
}
