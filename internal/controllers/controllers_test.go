package controllers_test

import (
	ssV1 "boxdiff/api/v1"
	"boxdiff/internal/capture"
	"boxdiff/internal/controllers"
	"boxdiff/internal/imageio"
	"boxdiff/internal/pipeline"
	"boxdiff/internal/storage"
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	batchV1 "k8s.io/api/batch/v1"
	metaV1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
)

func newScheme() *runtime.Scheme {
	scheme := runtime.NewScheme()
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(ssV1.AddToScheme(scheme))
	return scheme
}

// sequenceCapturer returns the queued screenshots in order, one per call.
type sequenceCapturer struct {
	mu          sync.Mutex
	screenshots [][]byte
}

func (c *sequenceCapturer) Capture(ctx context.Context, url string, opts capture.Options) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.screenshots) == 0 {
		return nil, errors.New("no screenshot queued")
	}
	screenshot := c.screenshots[0]
	c.screenshots = c.screenshots[1:]
	return screenshot, nil
}

func encode(t *testing.T, w, h int, patch image.Rectangle) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			if image.Pt(x, y).In(patch) {
				c = color.NRGBA{B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	data, err := imageio.EncodePNG(img)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return data
}

func newPipeline(t *testing.T, capturer capture.Capturer) (*pipeline.Pipeline, storage.Storage) {
	t.Helper()
	s, err := storage.NewFileStorage(context.Background(), storage.FileConfig{Directory: t.TempDir()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return &pipeline.Pipeline{
		Capturer: capturer,
		Loader:   &imageio.Loader{Storage: s},
		Storage:  s,
	}, s
}

func drain(recorder *record.FakeRecorder) []string {
	var events []string
	for {
		select {
		case event := <-recorder.Events:
			events = append(events, strings.SplitN(event, " ", 3)[:2]...)
		default:
			return events
		}
	}
}

func TestBoxDiffReconcile(t *testing.T) {
	ctx := context.Background()
	p, s := newPipeline(t, nil)

	baseline, err := s.Put(ctx, "baseline.png", encode(t, 16, 16, image.Rectangle{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	target, err := s.Put(ctx, "target.png", encode(t, 16, 16, image.Rect(4, 4, 8, 6)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tall, err := s.Put(ctx, "tall.png", encode(t, 16, 17, image.Rectangle{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	home := &ssV1.BoxDiff{
		ObjectMeta: metaV1.ObjectMeta{Namespace: "default", Name: "home", Generation: 1},
		Spec:       ssV1.BoxDiffSpec{Baseline: baseline, Target: target},
	}
	broken := &ssV1.BoxDiff{
		ObjectMeta: metaV1.ObjectMeta{Namespace: "default", Name: "broken", Generation: 1},
		Spec:       ssV1.BoxDiffSpec{Baseline: baseline, Target: tall},
	}
	late := &ssV1.BoxDiff{
		ObjectMeta: metaV1.ObjectMeta{Namespace: "default", Name: "late", Generation: 1},
		Spec:       ssV1.BoxDiffSpec{Baseline: baseline, Target: s.URL("late.png")},
	}
	c := fake.NewClientBuilder().
		WithScheme(newScheme()).
		WithObjects(home, broken, late).
		WithStatusSubresource(&ssV1.BoxDiff{}).
		Build()
	recorder := record.NewFakeRecorder(10)

	reconciler := &controllers.BoxDiffReconciler{
		Client:   c,
		Log:      logr.Discard(),
		Scheme:   c.Scheme(),
		Recorder: recorder,
		Pipeline: p,
	}

	t.Run("computes boxes", func(t *testing.T) {
		key := types.NamespacedName{Namespace: "default", Name: "home"}
		if _, err := reconciler.Reconcile(ctx, ctrl.Request{NamespacedName: key}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := &ssV1.BoxDiff{}
		if err := c.Get(ctx, key, got); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := ssV1.BoxDiffStatus{
			ObservedGeneration: 1,
			DiffResult: ssV1.DiffResult{
				BaselineURL: baseline,
				TargetURL:   target,
				ImageWidth:  16,
				ImageHeight: 16,
				Boxes:       []ssV1.Box{{X: 4, Y: 4, Width: 4, Height: 2, Pixels: 8}},
			},
		}
		if diff := cmp.Diff(want, got.Status,
			cmpopts.IgnoreFields(ssV1.BoxDiffStatus{}, "LastDiffTime"),
			cmpopts.IgnoreFields(ssV1.DiffResult{}, "AnnotatedURL"),
			cmpopts.IgnoreFields(ssV1.Box{}, "DiffScore"),
		); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
		if _, err := s.Get(ctx, got.Status.AnnotatedURL); err != nil {
			t.Errorf("expected annotated image to be stored: %v", err)
		}
		if diff := cmp.Diff([]string{"Normal", "DiffCompleted"}, drain(recorder)); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}

		// same generation is not diffed again
		if _, err := reconciler.Reconcile(ctx, ctrl.Request{NamespacedName: key}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string(nil), drain(recorder)); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	t.Run("reports dimension mismatch without retrying", func(t *testing.T) {
		key := types.NamespacedName{Namespace: "default", Name: "broken"}
		result, err := reconciler.Reconcile(ctx, ctrl.Request{NamespacedName: key})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(ctrl.Result{}, result); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}

		got := &ssV1.BoxDiff{}
		if err := c.Get(ctx, key, got); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(got.Status.Message, "16x16") || !strings.Contains(got.Status.Message, "16x17") {
			t.Errorf("unexpected message %q", got.Status.Message)
		}
		if diff := cmp.Diff([]string{"Warning", "DimensionMismatch"}, drain(recorder)); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	t.Run("retries after a failed load", func(t *testing.T) {
		key := types.NamespacedName{Namespace: "default", Name: "late"}
		if _, err := reconciler.Reconcile(ctx, ctrl.Request{NamespacedName: key}); err == nil {
			t.Fatalf("expected error while the target is missing")
		}
		got := &ssV1.BoxDiff{}
		if err := c.Get(ctx, key, got); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(int64(0), got.Status.ObservedGeneration); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}

		if _, err := s.Put(ctx, "late.png", encode(t, 16, 16, image.Rect(0, 0, 3, 3))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := reconciler.Reconcile(ctx, ctrl.Request{NamespacedName: key}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := c.Get(ctx, key, got); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(int64(1), got.Status.ObservedGeneration); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]ssV1.Box{{X: 0, Y: 0, Width: 3, Height: 3, Pixels: 9}}, got.Status.Boxes, cmpopts.IgnoreFields(ssV1.Box{}, "DiffScore")); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"Normal", "DiffCompleted"}, drain(recorder)); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	t.Run("ignores deleted objects", func(t *testing.T) {
		if _, err := reconciler.Reconcile(ctx, ctrl.Request{NamespacedName: types.NamespacedName{Namespace: "default", Name: "gone"}}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestBoxDiffReconcileDistributed(t *testing.T) {
	ctx := context.Background()
	threshold := 0.1

	boxDiff := &ssV1.BoxDiff{
		ObjectMeta: metaV1.ObjectMeta{Namespace: "default", Name: "home", Generation: 3, UID: "uid"},
		Spec: ssV1.BoxDiffSpec{
			Baseline:      "https://example.com/",
			Target:        "https://staging.example.com/",
			Capture:       true,
			MaskSelectors: []string{".ad", "#clock"},
			Parameters:    ssV1.DiffParameters{Threshold: &threshold},
		},
	}
	c := fake.NewClientBuilder().
		WithScheme(newScheme()).
		WithObjects(boxDiff).
		WithStatusSubresource(&ssV1.BoxDiff{}).
		Build()

	reconciler := &controllers.BoxDiffReconciler{
		Client:                  c,
		Log:                     logr.Discard(),
		Scheme:                  c.Scheme(),
		Recorder:                record.NewFakeRecorder(10),
		Distributed:             true,
		DistributedCallbackHost: "boxdiff.boxdiff.svc:8082",
		DistributedWorkerImage:  "worker:latest",
	}

	if _, err := reconciler.Reconcile(ctx, ctrl.Request{NamespacedName: types.NamespacedName{Namespace: "default", Name: "home"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	job := &batchV1.Job{}
	if err := c.Get(ctx, client.ObjectKey{Namespace: "default", Name: "boxdiff-home-3"}, job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"--callback-url", "http://boxdiff.boxdiff.svc:8082/api/default/boxdiffs/home/result",
		"--capture",
		"--mask-selectors", ".ad,#clock",
		"--threshold", "0.1",
		"https://example.com/", "https://staging.example.com/",
	}
	if diff := cmp.Diff(want, job.Spec.Template.Spec.Containers[0].Args); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("home", job.OwnerReferences[0].Name); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	got := &ssV1.BoxDiff{}
	if err := c.Get(ctx, client.ObjectKey{Namespace: "default", Name: "home"}, got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(int64(3), got.Status.ObservedGeneration); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestScheduledBoxDiffReconcile(t *testing.T) {
	ctx := context.Background()
	capturer := &sequenceCapturer{screenshots: [][]byte{
		encode(t, 12, 12, image.Rectangle{}),
		encode(t, 12, 12, image.Rect(0, 0, 3, 3)),
	}}
	p, _ := newPipeline(t, capturer)

	scheduledBoxDiff := &ssV1.ScheduledBoxDiff{
		ObjectMeta: metaV1.ObjectMeta{Namespace: "default", Name: "home", Generation: 1},
		Spec:       ssV1.ScheduledBoxDiffSpec{Schedule: "* * * * *", Target: "https://example.com/"},
	}
	c := fake.NewClientBuilder().
		WithScheme(newScheme()).
		WithObjects(scheduledBoxDiff).
		WithStatusSubresource(&ssV1.ScheduledBoxDiff{}).
		Build()

	now := time.Date(2024, 1, 1, 10, 0, 30, 0, time.UTC)
	reconciler := &controllers.ScheduledBoxDiffReconciler{
		Client:   c,
		Log:      logr.Discard(),
		Scheme:   c.Scheme(),
		Recorder: record.NewFakeRecorder(10),
		Pipeline: p,
		Now:      func() time.Time { return now },
	}
	key := types.NamespacedName{Namespace: "default", Name: "home"}
	get := func() *ssV1.ScheduledBoxDiff {
		t.Helper()
		got := &ssV1.ScheduledBoxDiff{}
		if err := c.Get(ctx, key, got); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return got
	}

	result, err := reconciler.Reconcile(ctx, ctrl.Request{NamespacedName: key})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(ctrl.Result{RequeueAfter: 30 * time.Second}, result); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	first := get()
	if first.Status.TargetURL == "" || first.Status.BaselineURL != "" || len(first.Status.Boxes) != 0 {
		t.Errorf("expected only an initial capture, got %+v", first.Status)
	}

	// not due yet
	result, err = reconciler.Reconcile(ctx, ctrl.Request{NamespacedName: key})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(ctrl.Result{RequeueAfter: 30 * time.Second}, result); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	now = now.Add(time.Minute)
	if _, err := reconciler.Reconcile(ctx, ctrl.Request{NamespacedName: key}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second := get()
	if diff := cmp.Diff(first.Status.TargetURL, second.Status.BaselineURL); diff != "" {
		t.Errorf("expected previous capture to become the baseline (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]ssV1.Box{{X: 0, Y: 0, Width: 3, Height: 3, Pixels: 9}}, second.Status.Boxes, cmpopts.IgnoreFields(ssV1.Box{}, "DiffScore")); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if second.Status.AnnotatedURL == "" {
		t.Errorf("expected annotated url")
	}
}

func TestScheduledBoxDiffReconcileInvalidSchedule(t *testing.T) {
	scheduledBoxDiff := &ssV1.ScheduledBoxDiff{
		ObjectMeta: metaV1.ObjectMeta{Namespace: "default", Name: "home"},
		Spec:       ssV1.ScheduledBoxDiffSpec{Schedule: "every minute", Target: "https://example.com/"},
	}
	c := fake.NewClientBuilder().WithScheme(newScheme()).WithObjects(scheduledBoxDiff).Build()
	recorder := record.NewFakeRecorder(10)
	reconciler := &controllers.ScheduledBoxDiffReconciler{Client: c, Log: logr.Discard(), Scheme: c.Scheme(), Recorder: recorder}

	result, err := reconciler.Reconcile(context.Background(), ctrl.Request{NamespacedName: types.NamespacedName{Namespace: "default", Name: "home"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(ctrl.Result{}, result); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Warning", "InvalidSchedule"}, drain(recorder)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
