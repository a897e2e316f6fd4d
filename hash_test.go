// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

package phe

import (
	"bytes"
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/frekui/phe/internal/pkg/authenc"
	"github.com/frekui/phe/internal/pkg/ec"
)

func bigInt(s string) *big.Int {
	x, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("big.Int SetString failed")
	}
	return x
}

func pointBytes(x, y string) []byte {
	p, err := ec.NewPoint(bigInt(x), bigInt(y))
	if err != nil {
		panic(err)
	}
	return p.Encode()
}

func TestDomains(t *testing.T) {
	for idx, tst := range []struct {
		d        []byte
		expected []byte
	}{
		{dhc0, []byte{0x56, 0x52, 0x47, 0x4c, 0x50, 0x48, 0x45, 0x31}},
		{dhc1, []byte{0x56, 0x52, 0x47, 0x4c, 0x50, 0x48, 0x45, 0x32}},
		{dhs0, []byte{0x56, 0x52, 0x47, 0x4c, 0x50, 0x48, 0x45, 0x33}},
		{dhs1, []byte{0x56, 0x52, 0x47, 0x4c, 0x50, 0x48, 0x45, 0x34}},
		{proofOK, []byte{0x56, 0x52, 0x47, 0x4c, 0x50, 0x48, 0x45, 0x35}},
		{proofErr, []byte{0x56, 0x52, 0x47, 0x4c, 0x50, 0x48, 0x45, 0x36}},
		{authenc.Domain, domain(0x37)},
		{kdfInfoZ, []byte{0x56, 0x52, 0x47, 0x4c, 0x50, 0x48, 0x45, 0x38}},
		{kdfInfoClientKey, []byte{0x56, 0x52, 0x47, 0x4c, 0x50, 0x48, 0x45, 0x39}},
	} {
		if !bytes.Equal(tst.d, tst.expected) {
			t.Fatalf("Test %d: got %x, expected %x", idx, tst.d, tst.expected)
		}
	}
}

func TestHashZ(t *testing.T) {
	g := ec.Generator().Encode()
	for idx, tst := range []struct {
		domain   []byte
		data     [][]byte
		expected string
	}{
		{proofOK, [][]byte{g}, "69727408650258925666157816894980607074870114162787023360036165814485426747693"},
		{proofOK, [][]byte{
			mustHex("0421c3719574afcec65e35bd775a5be36c77c0be4501f5d70ff070d51a893ad8e00ce6b89b1788e6c127a0e125d9de6a711646a0380fc4e95a74e52c89f1122a7c"),
			g,
			pointBytes("97803661066250274657510595696566855164534492744724548093309723513248461995097",
				"32563640650805051226489658838020042684659728733816530715089727234214066735908"),
			pointBytes("83901588226167680046300869772314554609808129217097458603677198943293551162597",
				"69578797673242144759724361924884259223786981560985539034793627438888366836078"),
			pointBytes("34051691470374495568913340263568595354597873005782528499014802063444122859583",
				"55902370943165854960816059167184401667567213725158022607170263924097403943290"),
			pointBytes("101861885104337123215820986653465602199317278936192518417111183141791463240617",
				"40785451420258280256125533532563267231769863378114083364571107590767796025737"),
			pointBytes("79689595215343344259388135277552904427007069090288122793121340067386243614518",
				"63043970895569149637126206639504503565389755448934804609068720159153015056302"),
		}, "93919747365284119397236447539917482315419780885577135068398876525953972539838"},
	} {
		actual := hashZ(tst.domain, tst.data...)
		if actual.Cmp(bigInt(tst.expected)) != 0 {
			t.Fatalf("Test %d: got %v, expected %v", idx, actual, tst.expected)
		}
	}
}

func TestHashZRange(t *testing.T) {
	buf := make([]byte, 64)
	for i := 0; i < 1000; i++ {
		if _, err := rand.Read(buf); err != nil {
			t.Fatal(err)
		}
		z := hashZ(proofErr, buf[:i%64], buf)
		if z.Sign() < 0 || z.Cmp(ec.N) >= 0 {
			t.Fatalf("hashZ returned %v which is not in [0, N)", z)
		}
	}
}

func TestHashToPoint(t *testing.T) {
	for idx, tst := range []struct {
		domain []byte
		data   [][]byte
		x, y   string
	}{
		// M is derived from a random seed without a domain.
		{nil, [][]byte{mustHex("80390531494470be0b296501586bfcd9e131c39e2decc753d4f25fefd2281eea")},
			"47919986077532098346505903401676113443327441655946536745084881296990002308999",
			"83980225500589559999287763767838231751053639306927585927546932471768986795515"},
		{dhs0, [][]byte{mustHex("8e48ac4b4a0c3f8783696f5d1f77d4256484d5b07fd38af6b2bf2d7b34578a24")},
			"25300858746488398178355367558777222618482687866522608982770829435057272700048",
			"110446173948945874058011275277660983270153244227256872727234408438424462761061"},
	} {
		p := hashToPoint(tst.domain, tst.data...)
		if p.X().Cmp(bigInt(tst.x)) != 0 || p.Y().Cmp(bigInt(tst.y)) != 0 {
			t.Fatalf("Test %d: got (%v, %v)", idx, p.X(), p.Y())
		}
	}

	hc0 := hashToPoint(dhc0,
		mustHex("db594e9a53eb3539846367f14c15a19b4bee1d2713f3aab53b1172d602516336"),
		mustHex("5af6f99ac20d0d5452a2"))
	if hc0.X().Cmp(bigInt("71581924212971445159021410682851786422010928474259399013091051697427945751880")) != 0 {
		t.Fatalf("hc0: got x = %v", hc0.X())
	}
}

func TestHashToPointDomainSeparation(t *testing.T) {
	ns := make([]byte, NonceLen)
	if _, err := rand.Read(ns); err != nil {
		t.Fatal(err)
	}
	hs0 := hashToPoint(dhs0, ns)
	hs1 := hashToPoint(dhs1, ns)
	if hs0.Equal(hs1) {
		t.Fatalf("hs0 == hs1")
	}
	if !hs0.IsOnCurve() || !hs1.IsOnCurve() {
		t.Fatalf("hashed point not on curve")
	}
	if !hashToPoint(dhs0, ns[:10], ns[10:]).Equal(hs0) {
		t.Fatalf("hashToPoint depends on how data is split")
	}
}
