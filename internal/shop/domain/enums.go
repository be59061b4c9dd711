package domain

import (
	"fmt"
	"strings"
)

// Role is a closed enumeration of user roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleClerk    Role = "clerk"
	RoleCustomer Role = "customer"
)

// ParseRole maps a raw string to a Role, case-insensitively. Unrecognised
// values fail rather than passing through.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleClerk:
		return RoleClerk, nil
	case RoleCustomer:
		return RoleCustomer, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string { return string(r) }

// AccountStatus is a closed enumeration of account states.
type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountSuspended AccountStatus = "suspended"
	AccountInactive  AccountStatus = "inactive"
)

// ParseAccountStatus maps a raw string to an AccountStatus.
func ParseAccountStatus(s string) (AccountStatus, error) {
	switch AccountStatus(strings.ToLower(strings.TrimSpace(s))) {
	case AccountActive:
		return AccountActive, nil
	case AccountSuspended:
		return AccountSuspended, nil
	case AccountInactive:
		return AccountInactive, nil
	default:
		return "", fmt.Errorf("unknown account status %q", s)
	}
}

func (s AccountStatus) String() string { return string(s) }

// OrderStatus is a closed enumeration of order lifecycle states.
//
// No transition table is enforced: any status may follow any other.
type OrderStatus string

const (
	OrderPlaced    OrderStatus = "placed"
	OrderProcessed OrderStatus = "processed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCompleted OrderStatus = "completed"
	OrderCanceled  OrderStatus = "canceled"
)

// ParseOrderStatus maps a raw string to an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(strings.ToLower(strings.TrimSpace(s))) {
	case OrderPlaced:
		return OrderPlaced, nil
	case OrderProcessed:
		return OrderProcessed, nil
	case OrderShipped:
		return OrderShipped, nil
	case OrderDelivered:
		return OrderDelivered, nil
	case OrderCompleted:
		return OrderCompleted, nil
	case OrderCanceled:
		return OrderCanceled, nil
	default:
		return "", fmt.Errorf("unknown order status %q", s)
	}
}

func (s OrderStatus) String() string { return string(s) }
