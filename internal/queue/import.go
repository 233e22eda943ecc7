package queue

import (
	"context"
	"fmt"
	"strings"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/semspace/semspace/internal/store"
	"github.com/semspace/semspace/pkg/dataset"
	"github.com/semspace/semspace/pkg/leaselock"
	"github.com/semspace/semspace/pkg/logger"
)

// ProcessImportMessage fetches the artifact named by the job, validates it by
// parsing, and persists it under a per-dataset lease so concurrent imports of
// the same name never interleave. Raw positions are stored untouched; the
// viewer normalizes at load time.
func ProcessImportMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	st *store.Store,
	locks *leaselock.Client,
	body []byte,
) error {
	msg, err := UnmarshalImportJob(body)
	if err != nil {
		return err
	}

	src, err := sourceFor(msg, s3Client)
	if err != nil {
		return err
	}

	raw, err := src.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("import job %s: fetch %s: %w", msg.JobID, src.Name(), err)
	}

	d, err := dataset.Parse(raw)
	if err != nil {
		return fmt.Errorf("import job %s: parse %s: %w", msg.JobID, src.Name(), err)
	}

	var id string
	save := func(ctx context.Context) error {
		var saveErr error
		id, saveErr = st.SaveDataset(ctx, msg.Dataset, d, raw)
		return saveErr
	}
	if locks != nil {
		err = locks.WithLease(ctx, "import:"+msg.Dataset, leaselock.Options{Wait: true}, save)
	} else {
		err = save(ctx)
	}
	if err != nil {
		return fmt.Errorf("import job %s: save: %w", msg.JobID, err)
	}

	logger.Info("[Import] Completed",
		"job_id", msg.JobID,
		"correlation_id", msg.CorrelationID,
		"dataset", msg.Dataset,
		"dataset_id", id,
		"words", len(d.Nodes),
	)
	return nil
}

func sourceFor(msg *ImportJobMsg, s3Client *awss3.Client) (dataset.Source, error) {
	switch msg.SourceKind {
	case SourceFile:
		return dataset.FileSource{Path: msg.Address}, nil
	case SourceURL:
		return dataset.NewWebSource(msg.Address), nil
	case SourceS3:
		bucket, key, ok := strings.Cut(msg.Address, "/")
		if !ok || bucket == "" || key == "" {
			return nil, fmt.Errorf("import job %s: s3 address must be bucket/key", msg.JobID)
		}
		if s3Client == nil {
			return nil, fmt.Errorf("import job %s: s3 source requires an object store client", msg.JobID)
		}
		return dataset.S3Source{Client: s3Client, Bucket: bucket, Key: key}, nil
	default:
		return nil, fmt.Errorf("import job %s: unknown source kind %q", msg.JobID, msg.SourceKind)
	}
}
