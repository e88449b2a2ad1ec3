package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
)

type CustomOrderUsecase struct {
	tx repo.TransactionManager
	//製作リードタイム（日数）。完成予定日の計算に使う
	leadDays int
}

func NewCustomOrderUsecase(tx repo.TransactionManager, leadDays int) *CustomOrderUsecase {
	if leadDays <= 0 {
		leadDays = 7
	}
	return &CustomOrderUsecase{tx: tx, leadDays: leadDays}
}

type CreateCustomOrderInput struct {
	DesignNotes    string `json:"design_notes"`
	Size           string `json:"size"`
	Color          string `json:"color"`
	EstimatedPrice int64  `json:"estimated_price"`
}

type CustomOrderOutput struct {
	ID                int64      `json:"id"`
	CustomOrderID     string     `json:"custom_order_id"`
	UserID            int64      `json:"user_id"`
	DesignNotes       string     `json:"design_notes"`
	Size              string     `json:"size"`
	Color             string     `json:"color"`
	ApprovalStatus    string     `json:"approval_status"`
	DeliveryStatus    string     `json:"delivery_status"`
	EstimatedPrice    int64      `json:"estimated_price"`
	FinalPrice        *int64     `json:"final_price"`
	PaymentVerifiedAt *time.Time `json:"payment_verified_at"`
	//created_at + 製作リードタイム
	EstimatedCompletion time.Time `json:"estimated_completion"`
	CreatedAt           time.Time `json:"created_at"`
}

// 公開ID。CUSTOM-XXXX-XXXX-XXXX（uuidの16進から採る）
func newCustomPublicID() string {
	hex := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "CUSTOM-" + hex[0:4] + "-" + hex[4:8] + "-" + hex[8:12]
}

func (u *CustomOrderUsecase) toOutput(co model.CustomOrder) CustomOrderOutput {
	return CustomOrderOutput{
		ID:                  co.ID,
		CustomOrderID:       co.PublicID,
		UserID:              co.UserID,
		DesignNotes:         co.DesignNotes,
		Size:                co.Size,
		Color:               co.Color,
		ApprovalStatus:      string(co.ApprovalStatus),
		DeliveryStatus:      string(co.DeliveryStatus),
		EstimatedPrice:      co.EstimatedPrice,
		FinalPrice:          co.FinalPrice,
		PaymentVerifiedAt:   co.PaymentVerifiedAt,
		EstimatedCompletion: co.CreatedAt.AddDate(0, 0, u.leadDays),
		CreatedAt:           co.CreatedAt,
	}
}

// 在庫は引き当てない（受注生産）。承認されるまで製作は始まらない
func (u *CustomOrderUsecase) Create(ctx context.Context, userID int64, in CreateCustomOrderInput) (CustomOrderOutput, error) {
	if userID <= 0 {
		return CustomOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.DesignNotes) == "" {
		return CustomOrderOutput{}, NewHTTPError(http.StatusBadRequest, "design_notes required")
	}
	if in.EstimatedPrice < 0 {
		return CustomOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid estimated_price")
	}

	var out CustomOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		now := time.Now()
		co := model.CustomOrder{
			PublicID:       newCustomPublicID(),
			UserID:         userID,
			DesignNotes:    strings.TrimSpace(in.DesignNotes),
			Size:           strings.TrimSpace(in.Size),
			Color:          strings.TrimSpace(in.Color),
			ApprovalStatus: model.ApprovalStatusPending,
			DeliveryStatus: model.DeliveryStatusPending,
			EstimatedPrice: in.EstimatedPrice,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		id, err := r.CustomOrders().Create(ctx, co)
		if err != nil {
			return dbError(err)
		}
		co.ID = id
		out = u.toOutput(co)
		return nil
	})

	if err != nil {
		return CustomOrderOutput{}, err
	}
	return out, nil
}

// 公開IDで1件取得。本人か管理者のみ
func (u *CustomOrderUsecase) Get(ctx context.Context, userID int64, isAdmin bool, publicID string) (CustomOrderOutput, error) {
	var out CustomOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		co, found, err := r.CustomOrders().FindByPublicID(ctx, strings.TrimSpace(publicID))
		if err != nil {
			return dbError(err)
		}
		if !found || (!isAdmin && co.UserID != userID) {
			return NewBusinessError(http.StatusNotFound, CodeOrderNotFound, "order not found")
		}
		out = u.toOutput(co)
		return nil
	})

	if err != nil {
		return CustomOrderOutput{}, err
	}
	return out, nil
}

func (u *CustomOrderUsecase) ListMy(ctx context.Context, userID int64) ([]CustomOrderOutput, error) {
	if userID <= 0 {
		return []CustomOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []CustomOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		list, _, err := r.CustomOrders().ListByUserID(ctx, userID, 1, 50)
		if err != nil {
			return dbError(err)
		}
		outs = make([]CustomOrderOutput, 0, len(list))
		for _, co := range list {
			outs = append(outs, u.toOutput(co))
		}
		return nil
	})

	if err != nil {
		return []CustomOrderOutput{}, err
	}
	return outs, nil
}

type CustomOrderAdminListInput struct {
	Page           int
	Limit          int
	ApprovalStatus string
	DeliveryStatus string
	UserID         *int64
}

func (u *CustomOrderUsecase) ListAdmin(ctx context.Context, in CustomOrderAdminListInput) ([]CustomOrderOutput, int64, error) {
	var outs []CustomOrderOutput
	var total int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		list, n, err := r.CustomOrders().ListAdmin(ctx, repo.CustomOrderListFilter{
			Page:           in.Page,
			Limit:          in.Limit,
			ApprovalStatus: in.ApprovalStatus,
			DeliveryStatus: in.DeliveryStatus,
			UserID:         in.UserID,
		})
		if err != nil {
			return dbError(err)
		}
		total = n
		outs = make([]CustomOrderOutput, 0, len(list))
		for _, co := range list {
			outs = append(outs, u.toOutput(co))
		}
		return nil
	})

	if err != nil {
		return []CustomOrderOutput{}, 0, err
	}
	return outs, total, nil
}

// 承認・却下。遷移表で検証し、監査ログを残す
func (u *CustomOrderUsecase) Review(ctx context.Context, adminID int64, publicID string, approve bool) (CustomOrderOutput, error) {
	target := model.ApprovalStatusApproved
	if !approve {
		target = model.ApprovalStatusRejected
	}

	var out CustomOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		co, found, err := r.CustomOrders().FindByPublicID(ctx, strings.TrimSpace(publicID))
		if err != nil {
			return dbError(err)
		}
		if !found {
			return NewBusinessError(http.StatusNotFound, CodeOrderNotFound, "order not found")
		}
		if !model.CanTransitionApproval(co.ApprovalStatus, target) {
			return NewBusinessError(http.StatusConflict, CodeInvalidTransition,
				"cannot transition approval from "+string(co.ApprovalStatus)+" to "+string(target))
		}

		if err := r.CustomOrders().UpdateApprovalStatus(ctx, co.ID, target); err != nil {
			return dbError(err)
		}

		if err := writeAudit(ctx, r, adminID, model.AuditActionReviewCustomOrder, model.AuditResourceCustomOrder, co.ID,
			map[string]any{"approval_status": co.ApprovalStatus},
			map[string]any{"approval_status": target},
		); err != nil {
			return dbError(err)
		}

		co.ApprovalStatus = target
		out = u.toOutput(co)
		return nil
	})

	if err != nil {
		return CustomOrderOutput{}, err
	}
	return out, nil
}

type VerifyPaymentInput struct {
	//0なら見積額を確定額にする
	FinalPrice int64 `json:"final_price"`
}

// 振込証憑の確認。final_priceは未設定のときだけ埋める（確定後は動かさない）。
// 決済シェル注文があれば同じトランザクションでPENDING→CONFIRMEDへ進める
func (u *CustomOrderUsecase) VerifyPayment(ctx context.Context, adminID int64, publicID string, in VerifyPaymentInput) (CustomOrderOutput, error) {
	if in.FinalPrice < 0 {
		return CustomOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid final_price")
	}

	var out CustomOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		co, found, err := r.CustomOrders().FindByPublicID(ctx, strings.TrimSpace(publicID))
		if err != nil {
			return dbError(err)
		}
		if !found {
			return NewBusinessError(http.StatusNotFound, CodeOrderNotFound, "order not found")
		}
		if co.ApprovalStatus != model.ApprovalStatusApproved {
			return NewBusinessError(http.StatusConflict, CodeInvalidTransition, "custom order not approved")
		}

		finalPrice := in.FinalPrice
		if finalPrice == 0 {
			finalPrice = co.EstimatedPrice
		}
		if err := r.CustomOrders().MarkPaymentVerified(ctx, co.ID, finalPrice); err != nil {
			return dbError(err)
		}

		//決済シェル注文の確定
		shell, found, err := r.Orders().FindByLinkedCustomOrderID(ctx, co.ID)
		if err != nil {
			return dbError(err)
		}
		if found && shell.Status == model.OrderStatusPending {
			if err := r.Orders().UpdateStatus(ctx, shell.ID, model.OrderStatusConfirmed); err != nil {
				return dbError(err)
			}
		}

		if err := writeAudit(ctx, r, adminID, model.AuditActionVerifyPayment, model.AuditResourceCustomOrder, co.ID,
			map[string]any{"payment_verified_at": co.PaymentVerifiedAt, "final_price": co.FinalPrice},
			map[string]any{"final_price": finalPrice},
		); err != nil {
			return dbError(err)
		}

		//保存後の値を読み直す（COALESCEの結果を反映）
		updated, err := r.CustomOrders().FindByID(ctx, co.ID)
		if err != nil {
			return dbError(err)
		}
		out = u.toOutput(updated)
		return nil
	})

	if err != nil {
		return CustomOrderOutput{}, err
	}
	return out, nil
}

// before/afterをJSONで残す
func writeAudit(ctx context.Context, r repo.TxRepos, actorID int64, action model.AuditAction, resource model.AuditResourceType, resourceID int64, before any, after any) error {
	beforeJSON, err := json.Marshal(before)
	if err != nil {
		return err
	}
	afterJSON, err := json.Marshal(after)
	if err != nil {
		return err
	}
	return r.AuditLogs().Create(ctx, model.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: resource,
		ResourceID:   resourceID,
		BeforeJSON:   string(beforeJSON),
		AfterJSON:    string(afterJSON),
		CreatedAt:    time.Now(),
	})
}
