package ports

import (
	"context"

	"github.com/bnema/spaceo-chat/internal/domain"
)

type ChatBackend interface {
	SendMessage(ctx context.Context, request domain.ChatRequest) (domain.ChatReply, error)
	UploadFile(ctx context.Context, accountID domain.AccountID, file domain.UploadFile) (domain.UploadReceipt, error)
}

type FileTypeDetector interface {
	Detect(path string) (string, error)
}
