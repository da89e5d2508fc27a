package feed

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// envelope mirrors the data-portal JSON layout:
// {"response":{"header":{...},"body":{"items":{"item":[...]},"totalCount":N}}}
type envelope struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items      json.RawMessage `json:"items"`
			TotalCount flexInt         `json:"totalCount"`
			PageNo     flexInt         `json:"pageNo"`
			NumOfRows  flexInt         `json:"numOfRows"`
		} `json:"body"`
	} `json:"response"`
}

type itemsWrapper struct {
	Item json.RawMessage `json:"item"`
}

// rawItem is one listing as the feed publishes it.
type rawItem struct {
	HouseID         flexString `json:"houseId"`
	HouseName       string     `json:"houseNm"`
	SidoName        string     `json:"sidoNm"`
	SigunguName     string     `json:"sggNm"`
	EmdName         string     `json:"emdNm"`
	RentAmount      flexInt    `json:"rentAmt"`
	SaleAmount      flexInt    `json:"saleAmt"`
	DepositAmount   flexInt    `json:"depositAmt"`
	RoomCount       flexInt    `json:"roomCnt"`
	Area            flexFloat  `json:"area"`
	HouseType       string     `json:"houseType"`
	HouseCondition  string     `json:"houseStts"`
	BuildYear       flexInt    `json:"buildYear"`
	Features        string     `json:"features"`
	NearFacilities  string     `json:"nearFacilities"`
	Transport       string     `json:"transport"`
	NaturalFeatures string     `json:"natureFeatures"`
	Population      flexInt    `json:"population"`
	AverageAge      flexInt    `json:"avgAge"`
	MainIndustries  string     `json:"mainIndustry"`
	Cultural        string     `json:"cultureActivity"`
	ImageURL        string     `json:"imageUrl"`
}

// decodeItems normalizes items into a slice. The portal sends "" for no
// results and a bare object when exactly one item matches.
func decodeItems(raw json.RawMessage) ([]rawItem, error) {
	raw = bytes.TrimSpace(raw)
	if isEmptyJSON(raw) {
		return nil, nil
	}

	var wrapper itemsWrapper
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, err
	}
	item := bytes.TrimSpace(wrapper.Item)
	if isEmptyJSON(item) {
		return nil, nil
	}

	if item[0] == '{' {
		var one rawItem
		if err := json.Unmarshal(item, &one); err != nil {
			return nil, err
		}
		return []rawItem{one}, nil
	}

	var many []rawItem
	if err := json.Unmarshal(item, &many); err != nil {
		return nil, err
	}
	return many, nil
}

func isEmptyJSON(b []byte) bool {
	return len(b) == 0 || string(b) == "null" || string(b) == `""`
}

// flexString accepts a JSON string or number.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(strings.TrimSpace(v))
		return nil
	}
	*s = flexString(b)
	return nil
}

// flexInt accepts a number or a numeric string such as "1,200". Blank is 0.
type flexInt struct {
	Value int64
	Valid bool
}

func (n *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// 숫자가 아닌 값은 누락으로 본다
		return nil
	}
	n.Value, n.Valid = int64(v), true
	return nil
}

func (n flexInt) ptr() *int64 {
	if !n.Valid || n.Value <= 0 {
		return nil
	}
	v := n.Value
	return &v
}

type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// splitList splits comma-separated tags and drops blanks.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
