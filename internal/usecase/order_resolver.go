package usecase

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// カスタムオーダー公開IDの形式（CUSTOM-XXXX-XXXX-XXXX）
var customPublicIDPattern = regexp.MustCompile(`^CUSTOM-[A-Za-z0-9]+-[A-Za-z0-9]+-[A-Za-z0-9]+$`)

// FK導入前のordersはnotesに参照を埋めていた。旧データの救済用
var legacyReferencePattern = regexp.MustCompile(`Reference:\s*(CUSTOM-[A-Za-z0-9-]+)`)

// 注文参照の解決結果。
// Kind==customでも、ordersテーブル経由で解決した場合はOrder（決済シェル）も持つ。
type ResolvedOrder struct {
	Kind        model.OrderKind
	Order       model.Order
	HasOrder    bool
	CustomOrder model.CustomOrder
}

func (ro ResolvedOrder) Ref() model.OrderRef {
	if ro.Kind == model.OrderKindCustom {
		return model.CustomOrderRef(ro.CustomOrder.ID)
	}
	return model.RegularOrderRef(ro.Order.ID)
}

// 解決後の注文の持ち主
func (ro ResolvedOrder) UserID() int64 {
	if ro.Kind == model.OrderKindCustom {
		return ro.CustomOrder.UserID
	}
	return ro.Order.UserID
}

// resolveOrderRef は人が見る注文参照（order_number または CUSTOM- 公開ID）から
// 正しい台帳レコードを1件に特定する。
// カスタム購入は orders（請求・決済用）と custom_orders（製作・配送用）の二重表現に
// なっているため、order_number で来てもカスタム側を正として返す。
// 製作・配送系の操作は必ずこの結果の CustomOrder.ID / PublicID を使うこと。
func resolveOrderRef(ctx context.Context, orders repo.OrderRepository, customs repo.CustomOrderRepository, ref string) (ResolvedOrder, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ResolvedOrder{}, NewHTTPError(http.StatusBadRequest, "invalid order ref")
	}

	//1. 公開IDの形式ならまずcustom_ordersを引く
	if customPublicIDPattern.MatchString(ref) {
		co, found, err := customs.FindByPublicID(ctx, ref)
		if err != nil {
			return ResolvedOrder{}, dbError(err)
		}
		if found {
			return ResolvedOrder{Kind: model.OrderKindCustom, CustomOrder: co}, nil
		}
		//形式だけ合っていて実体が無ければnot found
		return ResolvedOrder{}, NewBusinessError(http.StatusNotFound, CodeOrderNotFound, "order not found")
	}

	//2. order_numberで引く
	o, found, err := orders.FindByOrderNumber(ctx, ref)
	if err != nil {
		return ResolvedOrder{}, dbError(err)
	}
	if !found {
		return ResolvedOrder{}, NewBusinessError(http.StatusNotFound, CodeOrderNotFound, "order not found")
	}

	//3. カスタム購入のシェルならFKでcustom_ordersへ
	if o.LinkedCustomOrderID != nil {
		co, err := customs.FindByID(ctx, *o.LinkedCustomOrderID)
		if err == nil {
			return ResolvedOrder{Kind: model.OrderKindCustom, Order: o, HasOrder: true, CustomOrder: co}, nil
		}
		if err != repo.ErrNotFound {
			return ResolvedOrder{}, dbError(err)
		}
		//FKが宙に浮いていたら通常注文として扱う
	}

	//4. FK未設定の旧データはnotesの参照トークンで救済
	if m := legacyReferencePattern.FindStringSubmatch(o.Notes); m != nil {
		co, found, err := customs.FindByPublicID(ctx, m[1])
		if err != nil {
			return ResolvedOrder{}, dbError(err)
		}
		if found {
			return ResolvedOrder{Kind: model.OrderKindCustom, Order: o, HasOrder: true, CustomOrder: co}, nil
		}
	}

	return ResolvedOrder{Kind: model.OrderKindRegular, Order: o, HasOrder: true}, nil
}
