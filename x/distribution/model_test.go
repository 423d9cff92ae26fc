package distribution

import (
	"encoding/binary"
	"testing"

	"github.com/iov-one/rewarder/coin"
	"github.com/iov-one/rewarder/errors"
	"github.com/iov-one/rewarder/merkle"
	"github.com/iov-one/rewarder/weavetest"
	"github.com/iov-one/rewarder/weavetest/assert"
)

func TestDisbursement(t *testing.T) {
	d := Distribution{TotalAmount: coin.NewAmount(3000), StartEpoch: 100, EpochCount: 50}

	cases := map[string]struct {
		From, To int64
		Want     int64
	}{
		"twenty epochs":          {From: 100, To: 120, Want: 1200},
		"whole range":            {From: 100, To: 150, Want: 3000},
		"before the start":       {From: 0, To: 100, Want: 0},
		"after the end":          {From: 150, To: 400, Want: 0},
		"clamped to the range":   {From: 90, To: 110, Want: 600},
		"clamped past the end":   {From: 140, To: 1000, Want: 600},
		"empty window":           {From: 120, To: 120, Want: 0},
		"inverted window":        {From: 130, To: 120, Want: 0},
		"single epoch in middle": {From: 125, To: 126, Want: 60},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got := d.Disbursement(tc.From, tc.To)
			if !got.Equals(coin.NewAmount(tc.Want)) {
				t.Fatalf("want %d, got %s", tc.Want, got)
			}
		})
	}
}

func TestDisbursementTruncates(t *testing.T) {
	// 1000 over 3 epochs releases 333 per epoch and keeps the remainder.
	const total, epochs = 1000, 3
	d := Distribution{TotalAmount: coin.NewAmount(total), StartEpoch: 7, EpochCount: epochs}

	sum := coin.Amount{}
	for e := int64(7); e < 7+epochs; e++ {
		sum = sum.Add(d.Disbursement(e, e+1))
	}
	assert.Equal(t, coin.NewAmount(total-total%epochs).String(), sum.String())
}

func TestIsActive(t *testing.T) {
	d := Distribution{StartEpoch: 10, EpochCount: 2}
	assert.Equal(t, false, d.IsActive(9))
	assert.Equal(t, true, d.IsActive(10))
	assert.Equal(t, true, d.IsActive(11))
	assert.Equal(t, false, d.IsActive(12))
}

func TestDistributionID(t *testing.T) {
	creator := weavetest.NewCondition().Address()

	packed := make([]byte, 32)
	binary.BigEndian.PutUint64(packed[24:], 5)
	assert.Equal(t, merkle.Keccak256(creator, packed), DistributionID(creator, 5))

	if string(DistributionID(creator, 0)) == string(DistributionID(creator, 1)) {
		t.Fatal("nonce must change the id")
	}
	other := weavetest.NewCondition().Address()
	if string(DistributionID(creator, 0)) == string(DistributionID(other, 0)) {
		t.Fatal("creator must change the id")
	}
}

func TestDistributionValidate(t *testing.T) {
	valid := func() Distribution {
		return Distribution{
			ID:          DistributionID(weavetest.NewCondition().Address(), 0),
			Creator:     weavetest.NewCondition().Address(),
			RewardToken: weavetest.NewToken(),
			TotalAmount: coin.NewAmount(10),
			StartEpoch:  1,
			EpochCount:  1,
			CreatedAt:   100,
		}
	}

	cases := map[string]struct {
		Mutate    func(*Distribution)
		WantField string
		WantErr   *errors.Error
	}{
		"valid": {
			Mutate: func(*Distribution) {},
		},
		"zero amount": {
			Mutate:    func(d *Distribution) { d.TotalAmount = coin.Amount{} },
			WantField: "TotalAmount",
			WantErr:   errors.ErrInvalidAmount,
		},
		"zero epochs": {
			Mutate:    func(d *Distribution) { d.EpochCount = 0 },
			WantField: "EpochCount",
			WantErr:   errors.ErrInvalidDuration,
		},
		"short id": {
			Mutate:    func(d *Distribution) { d.ID = []byte{1} },
			WantField: "ID",
			WantErr:   errors.ErrInput,
		},
		"missing token": {
			Mutate:    func(d *Distribution) { d.RewardToken = nil },
			WantField: "RewardToken",
			WantErr:   errors.ErrEmpty,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			d := valid()
			tc.Mutate(&d)
			err := d.Validate()
			if tc.WantErr == nil {
				assert.Nil(t, err)
				return
			}
			assert.FieldError(t, err, tc.WantField, tc.WantErr)
		})
	}
}
