package application

import "github.com/ngocweb/membership-api/internal/apperr"

// User-facing failures. The Japanese messages are part of the public API
// contract and must not change. Handlers map kinds to HTTP statuses via
// apperr.Status.
var (
	ErrMissingFields  = apperr.New(apperr.Validation, "必須項目が不足しています")
	ErrDuplicateEmail = apperr.New(apperr.Conflict, "このメールアドレスは既に登録されています")

	ErrMissingCredentials = apperr.New(apperr.Validation, "メールアドレスとパスワードを入力してください")
	// Identical message for unknown email and wrong password, so callers
	// cannot enumerate accounts.
	ErrBadCredentials = apperr.New(apperr.Auth, "メールアドレスまたはパスワードが正しくありません")
	ErrNotVerified    = apperr.New(apperr.Forbidden, "メール認証が完了していません")

	ErrInvalidLink = apperr.New(apperr.Validation, "無効なリンクです")
	ErrLinkExpired = apperr.New(apperr.Expired, "リンクの有効期限が切れています")
	ErrLinkUnknown = apperr.New(apperr.Validation, "無効または期限切れのリンクです")

	ErrNotLoggedIn     = apperr.New(apperr.Auth, "ログインしていません")
	ErrSessionInvalid  = apperr.New(apperr.Auth, "セッションが無効です")
	ErrAccountInactive = apperr.New(apperr.Forbidden, "アカウントが有効ではありません")

	ErrNotAdmin       = apperr.New(apperr.Forbidden, "管理者権限がありません")
	ErrInvalidInput   = apperr.New(apperr.Validation, "入力が不正です")
	ErrTargetNotFound = apperr.New(apperr.NotFound, "ユーザーが見つかりません")
	ErrSelfDemotion   = apperr.New(apperr.Conflict, "自分の管理者権限は削除できません")
	ErrSameRole       = apperr.New(apperr.Conflict, "既に同じロールです")
	ErrLastAdmin      = apperr.New(apperr.Conflict, "最後の管理者を降格することはできません")

	ErrServer = apperr.New(apperr.Internal, "サーバーエラーが発生しました")

	// Attachment endpoints answer in English.
	ErrInvalidAttachmentID = apperr.New(apperr.Validation, "Invalid id")
	ErrAttachmentNotFound  = apperr.New(apperr.NotFound, "Not Found")
	ErrUnsupportedProvider = apperr.New(apperr.Validation, "Unsupported storage provider")
)
