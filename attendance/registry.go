package attendance

import (
	"context"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/metrics"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/model"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/utils"
)

// Profile carries the optional batchmate fields captured at check-in.
// Empty strings mean "not supplied".
type Profile struct {
	CallingName  string
	FullName     string
	NickName     string
	Address      string
	Country      string
	WorkingPlace string
	Email        string
	Field        string
	Attendance   string
}

func (p Profile) applyTo(b *model.Batchmate) {
	b.CallingName = utils.Coalesce(p.CallingName, b.CallingName)
	b.FullName = utils.Coalesce(p.FullName, b.FullName)
	b.NickName = utils.Coalesce(p.NickName, b.NickName)
	b.Address = utils.Coalesce(p.Address, b.Address)
	b.Country = utils.Coalesce(p.Country, b.Country)
	b.WorkingPlace = utils.Coalesce(p.WorkingPlace, b.WorkingPlace)
	b.Email = utils.Coalesce(p.Email, b.Email)
	b.Field = utils.Coalesce(p.Field, b.Field)
	b.Attendance = utils.Coalesce(p.Attendance, b.Attendance)
}

type Registry struct {
	batchmates BatchmateStore
}

func NewRegistry(batchmates BatchmateStore) *Registry {
	return &Registry{batchmates: batchmates}
}

// FindByMobile looks a batchmate up by the canonical or the raw form of the
// number, matching either mobile or whatsappMobile. It returns nil, nil when
// nobody is registered under the number.
func (r *Registry) FindByMobile(ctx context.Context, rawMobile string) (*model.Batchmate, error) {
	if rawMobile == "" {
		return nil, invalid("Mobile number is required")
	}
	b, err := r.batchmates.FindByMobile(ctx, utils.PhoneCandidates(rawMobile)...)
	if err != nil {
		return nil, storeErr("find batchmate by mobile", err)
	}
	return b, nil
}

// ResolveOrCreate finds the batchmate owning rawMobile and merges the supplied
// profile into it, or registers a new batchmate. Both stored numbers are
// always rewritten in canonical form.
func (r *Registry) ResolveOrCreate(ctx context.Context, rawMobile, rawWhatsapp string, profile Profile) (*model.Batchmate, error) {
	existing, err := r.FindByMobile(ctx, rawMobile)
	if err != nil {
		return nil, err
	}

	mobile := utils.NormalizePhoneNumber(rawMobile)
	whatsapp := mobile
	if rawWhatsapp != "" {
		whatsapp = utils.NormalizePhoneNumber(rawWhatsapp)
	}

	if existing != nil {
		profile.applyTo(existing)
		existing.Mobile = mobile
		existing.WhatsappMobile = whatsapp
		if err := r.batchmates.Save(ctx, existing); err != nil {
			return nil, storeErr("update batchmate", err)
		}
		return existing, nil
	}

	created := &model.Batchmate{
		Mobile:         mobile,
		WhatsappMobile: whatsapp,
		Field:          model.DefaultField,
		Attendance:     model.BatchmateAbsent,
	}
	profile.applyTo(created)
	if err := r.batchmates.Create(ctx, created); err != nil {
		return nil, storeErr("create batchmate", err)
	}
	metrics.BatchmatesCreated.Inc()
	return created, nil
}
