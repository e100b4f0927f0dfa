package controllers

import (
	ssV1 "boxdiff/api/v1"
	"boxdiff/internal/capture"
	"boxdiff/internal/diff/box"
	"boxdiff/internal/pipeline"
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"
	"golang.org/x/xerrors"
	batchV1 "k8s.io/api/batch/v1"
	coreV1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metaV1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	"k8s.io/utils/ptr"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/predicate"
)

type BoxDiffReconciler struct {
	client.Client
	Log      logr.Logger
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder
	Pipeline *pipeline.Pipeline

	Distributed             bool
	DistributedCallbackHost string
	DistributedWorkerImage  string
}

func (r *BoxDiffReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	boxDiff := &ssV1.BoxDiff{}
	if err := r.Get(ctx, req.NamespacedName, boxDiff); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, err
	}

	if boxDiff.Status.ObservedGeneration >= boxDiff.Generation {
		return ctrl.Result{}, nil
	}

	// the generation is recorded only after its work succeeds, so failures are requeued
	if r.Distributed {
		if err := r.createJob(ctx, boxDiff); err != nil {
			return ctrl.Result{}, err
		}
		boxDiff.Status.ObservedGeneration = boxDiff.Generation
		if err := r.Status().Update(ctx, boxDiff); err != nil {
			return ctrl.Result{}, err
		}
		return ctrl.Result{}, nil
	}

	if err := r.processBoxDiff(ctx, boxDiff); err != nil {
		return ctrl.Result{}, err
	}
	return ctrl.Result{}, nil
}

func (r *BoxDiffReconciler) processBoxDiff(ctx context.Context, boxDiff *ssV1.BoxDiff) error {
	result, err := r.Pipeline.Run(ctx, pipeline.Input{
		Baseline: pipeline.Source{Ref: boxDiff.Spec.Baseline, Capture: boxDiff.Spec.Capture},
		Target:   pipeline.Source{Ref: boxDiff.Spec.Target, Capture: boxDiff.Spec.Capture},
		CaptureOptions: capture.Options{
			MaskSelectors: boxDiff.Spec.MaskSelectors,
			Headers:       boxDiff.Spec.Headers,
		},
		Threshold:        boxDiff.Spec.Parameters.Threshold,
		MinBoxArea:       boxDiff.Spec.Parameters.MinBoxArea,
		MinClusterPixels: boxDiff.Spec.Parameters.MinClusterPixels,
		Annotate:         true,
	})
	if err != nil {
		var mismatch *box.DimensionMismatchError
		if errors.As(err, &mismatch) {
			// retrying cannot fix the inputs, so report and stop
			r.Recorder.Eventf(boxDiff, coreV1.EventTypeWarning, "DimensionMismatch", "Images cannot be compared: %s", mismatch)
			return r.updateStatus(ctx, boxDiff, ssV1.DiffResult{Message: mismatch.Error()})
		}
		return xerrors.Errorf("failed to run diff: %w", err)
	}

	if err := r.updateStatus(ctx, boxDiff, toDiffResult(result)); err != nil {
		return err
	}
	r.Recorder.Eventf(boxDiff, coreV1.EventTypeNormal, "DiffCompleted", "Diff completed successfully: %q (%d boxes)", boxDiff.Name, len(result.Boxes))

	return nil
}

func (r *BoxDiffReconciler) updateStatus(ctx context.Context, boxDiff *ssV1.BoxDiff, result ssV1.DiffResult) error {
	now := metaV1.Now()
	boxDiff.Status.ObservedGeneration = boxDiff.Generation
	boxDiff.Status.DiffResult = result
	boxDiff.Status.LastDiffTime = &now

	if err := r.Status().Update(ctx, boxDiff); err != nil {
		return xerrors.Errorf("failed to update boxdiff status: %w", err)
	}
	return nil
}

func (r *BoxDiffReconciler) createJob(ctx context.Context, boxDiff *ssV1.BoxDiff) error {
	suffix := fmt.Sprintf("-%d", boxDiff.Generation)
	jobName := truncateName("boxdiff-"+boxDiff.Name, len(suffix)) + suffix

	args := []string{
		"--callback-url", fmt.Sprintf("http://%s/api/%s/boxdiffs/%s/result", r.DistributedCallbackHost, boxDiff.Namespace, boxDiff.Name),
	}
	if boxDiff.Spec.Capture {
		args = append(args, "--capture")
		args = append(args, captureArgs(boxDiff.Spec.MaskSelectors, boxDiff.Spec.Headers)...)
	}
	args = append(args, parameterArgs(boxDiff.Spec.Parameters)...)
	args = append(args, boxDiff.Spec.Baseline, boxDiff.Spec.Target)

	job := &batchV1.Job{
		ObjectMeta: metaV1.ObjectMeta{
			Name:      jobName,
			Namespace: boxDiff.Namespace,
		},
		Spec: batchV1.JobSpec{
			BackoffLimit:            ptr.To[int32](2),
			TTLSecondsAfterFinished: ptr.To[int32](3600),
			Template: coreV1.PodTemplateSpec{
				Spec: coreV1.PodSpec{
					RestartPolicy: coreV1.RestartPolicyNever,
					Containers: []coreV1.Container{
						{
							Name:  "worker",
							Image: r.DistributedWorkerImage,
							Args:  args,
							Env:   workerEnv(),
						},
					},
				},
			},
		},
	}

	if err := controllerutil.SetControllerReference(boxDiff, job, r.Scheme); err != nil {
		return xerrors.Errorf("failed to set controller reference: %w", err)
	}

	if err := r.Create(ctx, job); err != nil {
		if apierrors.IsAlreadyExists(err) {
			r.Log.Info("Job already exists", "job", jobName)
			return nil
		}
		return xerrors.Errorf("failed to create job: %w", err)
	}

	r.Recorder.Eventf(boxDiff, coreV1.EventTypeNormal, "JobCreated", "Created job %s for boxdiff", jobName)
	return nil
}

func (r *BoxDiffReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&ssV1.BoxDiff{}).
		WithEventFilter(predicate.GenerationChangedPredicate{}).
		WithOptions(controller.Options{MaxConcurrentReconciles: 1}).
		Complete(r)
}
