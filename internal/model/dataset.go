package model

// Dataset is the whole durable blob shared by every session.
//
// CurrentUser, Couple, Partner and IsLoading are written by older clients
// that persisted their session view into the shared blob. They are read and
// rehydrated but never written back.
type Dataset struct {
	Users      []User     `json:"users"`
	Couples    []Couple   `json:"couples"`
	Tasks      []Task     `json:"tasks"`
	Rewards    []Reward   `json:"rewards"`
	Vouchers   []Voucher  `json:"vouchers"`
	Activities []Activity `json:"activities"`

	CurrentUser *User   `json:"currentUser,omitempty"`
	Couple      *Couple `json:"couple,omitempty"`
	Partner     *User   `json:"partner,omitempty"`
	IsLoading   bool    `json:"isLoading,omitempty"`

	// Revision identifies the stored bytes this dataset was decoded from.
	Revision string `json:"-"`
}

// Normalize replaces nil collections with empty ones so the blob always
// serializes every key as an array.
func (d *Dataset) Normalize() {
	if d.Users == nil {
		d.Users = []User{}
	}
	if d.Couples == nil {
		d.Couples = []Couple{}
	}
	if d.Tasks == nil {
		d.Tasks = []Task{}
	}
	if d.Rewards == nil {
		d.Rewards = []Reward{}
	}
	if d.Vouchers == nil {
		d.Vouchers = []Voucher{}
	}
	if d.Activities == nil {
		d.Activities = []Activity{}
	}
}

// The lookup helpers return pointers into the collections so callers can
// mutate the stored record in place. They return nil when nothing matches.

func (d *Dataset) UserByID(id string) *User {
	if id == "" {
		return nil
	}
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i]
		}
	}
	return nil
}

func (d *Dataset) UserByEmail(email string) *User {
	for i := range d.Users {
		if d.Users[i].Email == email {
			return &d.Users[i]
		}
	}
	return nil
}

func (d *Dataset) UserByCode(code string) *User {
	if code == "" {
		return nil
	}
	for i := range d.Users {
		if d.Users[i].UserCode == code {
			return &d.Users[i]
		}
	}
	return nil
}

func (d *Dataset) CoupleByID(id string) *Couple {
	if id == "" {
		return nil
	}
	for i := range d.Couples {
		if d.Couples[i].ID == id {
			return &d.Couples[i]
		}
	}
	return nil
}

func (d *Dataset) TaskByID(id string) *Task {
	for i := range d.Tasks {
		if d.Tasks[i].ID == id {
			return &d.Tasks[i]
		}
	}
	return nil
}

func (d *Dataset) RewardByID(id string) *Reward {
	for i := range d.Rewards {
		if d.Rewards[i].ID == id {
			return &d.Rewards[i]
		}
	}
	return nil
}

func (d *Dataset) VoucherByID(id string) *Voucher {
	for i := range d.Vouchers {
		if d.Vouchers[i].ID == id {
			return &d.Vouchers[i]
		}
	}
	return nil
}
