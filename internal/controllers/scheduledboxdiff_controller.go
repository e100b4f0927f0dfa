package controllers

import (
	ssV1 "boxdiff/api/v1"
	"boxdiff/internal/capture"
	"boxdiff/internal/diff/box"
	"boxdiff/internal/pipeline"
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"
	"github.com/robfig/cron/v3"
	"golang.org/x/xerrors"
	coreV1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metaV1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/predicate"
)

type ScheduledBoxDiffReconciler struct {
	client.Client
	Log      logr.Logger
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder
	Pipeline *pipeline.Pipeline

	// Now is replaced in tests
	Now func() time.Time
}

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

func (r *ScheduledBoxDiffReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	scheduledBoxDiff := &ssV1.ScheduledBoxDiff{}
	if err := r.Get(ctx, req.NamespacedName, scheduledBoxDiff); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, err
	}

	schedule, err := scheduleParser.Parse(scheduledBoxDiff.Spec.Schedule)
	if err != nil {
		r.Recorder.Eventf(scheduledBoxDiff, coreV1.EventTypeWarning, "InvalidSchedule", "Invalid schedule %q: %s", scheduledBoxDiff.Spec.Schedule, err)
		return ctrl.Result{}, nil
	}

	now := r.now()
	nextRun := schedule.Next(now.Add(-1 * time.Minute))
	if scheduledBoxDiff.Status.LastDiffTime != nil {
		nextRun = schedule.Next(scheduledBoxDiff.Status.LastDiffTime.Time)
	}

	if now.Before(nextRun) {
		return ctrl.Result{RequeueAfter: nextRun.Sub(now)}, nil
	}

	if err := r.processScheduledBoxDiff(ctx, scheduledBoxDiff); err != nil {
		return ctrl.Result{}, err
	}

	return ctrl.Result{RequeueAfter: schedule.Next(now).Sub(now)}, nil
}

// processScheduledBoxDiff captures the target and compares it with the previous capture,
// which becomes the new baseline.
func (r *ScheduledBoxDiffReconciler) processScheduledBoxDiff(ctx context.Context, scheduledBoxDiff *ssV1.ScheduledBoxDiff) error {
	targetURL, targetImage, err := r.Pipeline.Acquire(ctx, pipeline.Source{Ref: scheduledBoxDiff.Spec.Target, Capture: true}, capture.Options{
		MaskSelectors: scheduledBoxDiff.Spec.MaskSelectors,
		Headers:       scheduledBoxDiff.Spec.Headers,
	})
	if err != nil {
		return xerrors.Errorf("failed to capture target: %w", err)
	}

	previousURL := scheduledBoxDiff.Status.TargetURL
	result := ssV1.DiffResult{
		BaselineURL: previousURL,
		TargetURL:   targetURL,
	}

	if previousURL == "" {
		bounds := targetImage.Bounds()
		result.ImageWidth = bounds.Dx()
		result.ImageHeight = bounds.Dy()
		result.Message = "captured initial baseline"
		return r.updateStatus(ctx, scheduledBoxDiff, result)
	}

	baselineImage, err := r.Pipeline.Loader.Load(ctx, previousURL)
	if err != nil {
		return xerrors.Errorf("failed to load previous capture: %w", err)
	}

	request := box.NewRequest(baselineImage, targetImage)
	request.Threshold = scheduledBoxDiff.Spec.Parameters.Threshold
	request.MinBoxArea = scheduledBoxDiff.Spec.Parameters.MinBoxArea
	request.MinClusterPixels = scheduledBoxDiff.Spec.Parameters.MinClusterPixels

	response, err := box.Calculate(request)
	if err != nil {
		var mismatch *box.DimensionMismatchError
		if !errors.As(err, &mismatch) {
			return xerrors.Errorf("failed to calculate diff: %w", err)
		}
		// the page layout changed size; the new capture still becomes the next baseline
		r.Recorder.Eventf(scheduledBoxDiff, coreV1.EventTypeWarning, "DimensionMismatch", "Captures cannot be compared: %s", mismatch)
		result.Message = mismatch.Error()
		return r.updateStatus(ctx, scheduledBoxDiff, result)
	}

	result.ImageWidth = response.ImageWidth
	result.ImageHeight = response.ImageHeight
	result.Boxes = toBoxes(response.Boxes)

	annotatedURL, err := r.Pipeline.StoreAnnotation(ctx, previousURL+targetURL, targetImage, response.Boxes)
	if err != nil {
		return err
	}
	result.AnnotatedURL = annotatedURL

	if err := r.updateStatus(ctx, scheduledBoxDiff, result); err != nil {
		return err
	}
	r.Recorder.Eventf(scheduledBoxDiff, coreV1.EventTypeNormal, "DiffCompleted", "Scheduled diff completed successfully: %q (%d boxes)", scheduledBoxDiff.Name, len(response.Boxes))
	return nil
}

func (r *ScheduledBoxDiffReconciler) updateStatus(ctx context.Context, scheduledBoxDiff *ssV1.ScheduledBoxDiff, result ssV1.DiffResult) error {
	now := metaV1.NewTime(r.now())
	scheduledBoxDiff.Status.DiffResult = result
	scheduledBoxDiff.Status.LastDiffTime = &now

	if err := r.Status().Update(ctx, scheduledBoxDiff); err != nil {
		return xerrors.Errorf("failed to update scheduledboxdiff status: %w", err)
	}
	return nil
}

func (r *ScheduledBoxDiffReconciler) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *ScheduledBoxDiffReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&ssV1.ScheduledBoxDiff{}).
		WithEventFilter(predicate.GenerationChangedPredicate{}).
		WithOptions(controller.Options{MaxConcurrentReconciles: 1}).
		Complete(r)
}
