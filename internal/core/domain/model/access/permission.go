package access

// Action names an operation guarded by the permission table.
type Action string

const (
	ActionOrderCreate       Action = "order.create"
	ActionOrderList         Action = "order.list"
	ActionOrderView         Action = "order.view"
	ActionOrderAvailable    Action = "order.available"
	ActionOrderCurrent      Action = "order.current"
	ActionOrderTake         Action = "order.take"
	ActionOrderConfirm      Action = "order.confirm"
	ActionOrderRejectDriver Action = "order.reject_driver"
	ActionOrderCancel       Action = "order.cancel"
	ActionOrderDepart       Action = "order.depart"
	ActionOrderComplete     Action = "order.complete"
	ActionOrderUpdateGeo    Action = "order.update_geo"
	ActionOrderWithdraw     Action = "order.withdraw"

	ActionApproveDriver         Action = "approval.driver"
	ActionApproveCompanyManager Action = "approval.company_manager"

	ActionLiveOrderUpdates           Action = "live.order_updates"
	ActionLiveOrderLocation          Action = "live.order_location"
	ActionLiveDriverApproval         Action = "live.driver_approval"
	ActionLiveCompanyManagerApproval Action = "live.company_manager_approval"
	ActionLiveNewUsers               Action = "live.new_users"

	ActionUserPushToken Action = "user.push_token"
)

var (
	managers         = []Role{RoleManager}
	drivers          = []Role{RoleDriver, RoleCompanyDriver}
	allAuthenticated = []Role{RoleManager, RoleDriver, RoleCompanyDriver, RoleCompanyManager}
)

var permissions = map[Action][]Role{
	ActionOrderCreate:       managers,
	ActionOrderList:         managers,
	ActionOrderConfirm:      managers,
	ActionOrderRejectDriver: managers,
	ActionOrderWithdraw:     managers,
	ActionOrderView:         {RoleManager, RoleDriver, RoleCompanyDriver},
	ActionOrderAvailable:    drivers,
	ActionOrderCurrent:      drivers,
	ActionOrderTake:         drivers,
	ActionOrderCancel:       drivers,
	ActionOrderDepart:       drivers,
	ActionOrderComplete:     drivers,
	ActionOrderUpdateGeo:    drivers,

	ActionApproveDriver:         {RoleManager, RoleCompanyManager},
	ActionApproveCompanyManager: managers,

	ActionLiveOrderUpdates:           managers,
	ActionLiveNewUsers:               managers,
	ActionLiveOrderLocation:          {RoleManager, RoleDriver, RoleCompanyDriver},
	ActionLiveDriverApproval:         drivers,
	ActionLiveCompanyManagerApproval: {RoleCompanyManager},

	ActionUserPushToken: allAuthenticated,
}

// IsAllowed reports whether role may perform action. Unknown actions are
// denied to everyone except admin.
func IsAllowed(role Role, action Action) bool {
	if role == RoleAdmin {
		return true
	}
	for _, r := range permissions[action] {
		if r == role {
			return true
		}
	}
	return false
}
