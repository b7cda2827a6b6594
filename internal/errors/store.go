package errors

// Catalog, purchase and inventory failures.
var (
	ErrProductNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "PRODUCT_NOT_FOUND",
		Message: "product not found",
	}
	ErrInvalidProduct = &DomainError{
		Kind:    KindInvalidInput,
		Code:    "INVALID_PRODUCT",
		Message: "invalid product",
	}
	ErrProductUnavailable = &DomainError{
		Kind:    KindUnavailable,
		Code:    "PRODUCT_UNAVAILABLE",
		Message: "product is not available",
	}
	ErrOutOfStock = &DomainError{
		Kind:    KindUnavailable,
		Code:    "OUT_OF_STOCK",
		Message: "product is out of stock",
	}
	ErrRequirementsNotMet = &DomainError{
		Kind:    KindUnavailable,
		Code:    "REQUIREMENTS_NOT_MET",
		Message: "user does not meet the product requirements",
	}
	ErrPurchaseLimitReached = &DomainError{
		Kind:    KindLimitReached,
		Code:    "PURCHASE_LIMIT_REACHED",
		Message: "maximum purchases reached for this product",
	}
	ErrPurchaseNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "PURCHASE_NOT_FOUND",
		Message: "purchase not found",
	}
	ErrPurchaseNotRefundable = &DomainError{
		Kind:    KindInvalidInput,
		Code:    "PURCHASE_NOT_REFUNDABLE",
		Message: "only completed purchases can be refunded",
	}

	ErrItemNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "ITEM_NOT_FOUND",
		Message: "inventory item not found",
	}
	ErrItemExpired = &DomainError{
		Kind:    KindExpired,
		Code:    "ITEM_EXPIRED",
		Message: "inventory item has expired",
	}
	ErrItemConsumed = &DomainError{
		Kind:    KindUnavailable,
		Code:    "ITEM_CONSUMED",
		Message: "inventory item has been consumed",
	}
	ErrItemInactive = &DomainError{
		Kind:    KindUnavailable,
		Code:    "ITEM_INACTIVE",
		Message: "inventory item is no longer active",
	}
	ErrItemNotConsumable = &DomainError{
		Kind:    KindInvalidInput,
		Code:    "ITEM_NOT_CONSUMABLE",
		Message: "inventory item is not consumable",
	}
	ErrNotEnoughUses = &DomainError{
		Kind:    KindInvalidInput,
		Code:    "NOT_ENOUGH_USES",
		Message: "amount exceeds the remaining uses",
	}
)
