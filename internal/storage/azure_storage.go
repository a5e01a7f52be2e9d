package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
)

// BlobUploadAPI is the slice of the azblob client the store needs.
type BlobUploadAPI interface {
	UploadBuffer(ctx context.Context, containerName string, blobName string, buffer []byte, o *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error)
}

type azureStorage struct {
	client    BlobUploadAPI
	container string
	prefix    string
	now       func() time.Time
}

// NewAzureClient builds a shared-key blob client for accountName.
func NewAzureClient(accountName string, accountKey string) (*azblob.Client, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// NewAzureStorage writes results as block blobs using the object-storage key layout.
func NewAzureStorage(client BlobUploadAPI, container, prefix string) ResultStore {
	return &azureStorage{client: client, container: container, prefix: prefix, now: time.Now}
}

func (s *azureStorage) Put(ctx context.Context, payload []byte) (string, error) {
	name := newPartition(s.now()).objectKey(s.prefix)
	contentType := "application/json"

	_, err := s.client.UploadBuffer(ctx, s.container, name, payload, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return "", fmt.Errorf("upload azblob://%s/%s: %w", s.container, name, err)
	}
	return fmt.Sprintf("azblob://%s/%s", s.container, name), nil
}

func (s *azureStorage) Backend() string {
	return "azure"
}
