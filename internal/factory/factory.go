package factory

import (
	"context"
	"fmt"

	"go-pose-estimator/internal/config"
	"go-pose-estimator/internal/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// StorageType represents different types of result store backends
type StorageType string

const (
	// LocalStorage for the local file system
	LocalStorage StorageType = config.BackendLocal
	// S3Storage for an AWS S3 bucket
	S3Storage StorageType = config.BackendS3
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = config.BackendAzure
)

// StorageFactory creates result store implementations
type StorageFactory interface {
	CreateStorage(ctx context.Context, storageType StorageType) (storage.ResultStore, error)
}

// AWSConfigLoader resolves AWS credentials and region
type AWSConfigLoader func(ctx context.Context) (aws.Config, error)

// storageFactory implements StorageFactory
type storageFactory struct {
	cfg      *config.Config
	loadAWS  AWSConfigLoader
	newS3    func(aws.Config) storage.S3PutObjectAPI
	newAzure func(account, key string) (storage.BlobUploadAPI, error)
}

// NewStorageFactory creates a new storage factory using the default AWS credential chain
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{
		cfg:     cfg,
		loadAWS: DefaultAWSConfig,
		newS3: func(c aws.Config) storage.S3PutObjectAPI {
			return s3.NewFromConfig(c)
		},
		newAzure: func(account, key string) (storage.BlobUploadAPI, error) {
			return storage.NewAzureClient(account, key)
		},
	}
}

// CreateStorage creates a store for the specified backend
func (f *storageFactory) CreateStorage(ctx context.Context, storageType StorageType) (storage.ResultStore, error) {
	switch storageType {
	case LocalStorage:
		return storage.NewLocalStorage(f.cfg.LocalStoreDir), nil
	case S3Storage:
		awsCfg, err := f.loadAWS(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return storage.NewS3Storage(f.newS3(awsCfg), f.cfg.S3Bucket, f.cfg.S3Prefix), nil
	case AzureStorage:
		client, err := f.newAzure(f.cfg.AzureAccountName, f.cfg.AzureAccountKey)
		if err != nil {
			return nil, fmt.Errorf("create azure client: %w", err)
		}
		// Blob names share the S3_PREFIX layout.
		return storage.NewAzureStorage(client, f.cfg.AzureContainer, f.cfg.S3Prefix), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// DefaultAWSConfig loads the shared AWS configuration from the environment
func DefaultAWSConfig(ctx context.Context) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx)
}

// NewCloudWatchClient creates the metrics client used when cloud metrics are enabled
func NewCloudWatchClient(ctx context.Context, load AWSConfigLoader) (*cloudwatch.Client, error) {
	awsCfg, err := load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return cloudwatch.NewFromConfig(awsCfg), nil
}
