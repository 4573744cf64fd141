package usecase

// termKind classifies a lexicon entry for keyword ordering
type termKind uint8

const (
	termCore     termKind = iota + 1 // product nouns searched on their own
	termModifier                     // adjectives that narrow a search
	termGeneric                      // filler that never becomes a keyword
)

// lexEntry maps a surface form to the canonical catalog search term
type lexEntry struct {
	canonical string
	kind      termKind
}

func core(canonical string) lexEntry     { return lexEntry{canonical: canonical, kind: termCore} }
func modifier(canonical string) lexEntry { return lexEntry{canonical: canonical, kind: termModifier} }

var generic = lexEntry{kind: termGeneric}

// giftLexicon maps colloquial and adjective terms to canonical catalog search terms.
// Keys are normalized (lowercase, NFKC).
var giftLexicon = map[string]lexEntry{
	// Kitchen
	"주방용품": core("주방용품"), "주방": core("주방용품"), "키친": core("주방용품"), "kitchen": core("주방용품"),
	"조리도구": core("조리도구"), "냄비": core("냄비"), "프라이팬": core("프라이팬"), "칼": core("주방칼"),
	"머그컵": core("머그컵"), "머그": core("머그컵"), "mug": core("머그컵"), "텀블러": core("텀블러"), "tumbler": core("텀블러"),
	"식기": core("식기세트"), "그릇": core("식기세트"),
	// Coffee and tea
	"커피": core("원두"), "coffee": core("원두"), "원두": core("원두"), "드립백": core("드립백"),
	"커피머신": core("커피머신"), "핸드드립": core("핸드드립세트"), "홍차": core("홍차"), "차": core("차세트"), "tea": core("차세트"),
	"전통차": core("전통차"),
	// Electronics
	"이어폰": core("이어폰"), "earphones": core("이어폰"), "earbuds": core("이어폰"), "무선이어폰": core("무선이어폰"),
	"헤드폰": core("헤드폰"), "headphones": core("헤드폰"), "스피커": core("스피커"), "speaker": core("스피커"),
	"블루투스스피커": core("블루투스스피커"), "스마트워치": core("스마트워치"), "smartwatch": core("스마트워치"),
	"노트북": core("노트북"), "키보드": core("키보드"), "keyboard": core("키보드"), "마우스": core("마우스"),
	"카메라": core("카메라"), "camera": core("카메라"), "보조배터리": core("보조배터리"), "충전기": core("충전기"),
	"전자기기": core("전자기기"), "가전": core("가전제품"),
	// Books and stationery
	"책": core("책"), "도서": core("책"), "book": core("책"), "books": core("책"), "만년필": core("만년필"),
	"다이어리": core("다이어리"), "노트": core("노트"), "학용품": core("학용품"), "필기구": core("필기구"),
	// Beauty and wellness
	"화장품": core("화장품"), "cosmetics": core("화장품"), "향수": core("향수"), "perfume": core("향수"),
	"립스틱": core("립스틱"), "스킨케어": core("스킨케어"), "핸드크림": core("핸드크림"),
	"마사지기": core("마사지기"), "안마기": core("마사지기"), "마사지의자": core("마사지의자"),
	"건강식품": core("건강식품"), "건강기능식품": core("건강기능식품"), "영양제": core("영양제"), "홍삼": core("홍삼"),
	// Fashion
	"지갑": core("지갑"), "wallet": core("지갑"), "가방": core("가방"), "bag": core("가방"), "백팩": core("백팩"),
	"시계": core("시계"), "watch": core("시계"), "목걸이": core("목걸이"), "necklace": core("목걸이"),
	"귀걸이": core("귀걸이"), "반지": core("반지"), "팔찌": core("팔찌"), "스카프": core("스카프"), "머플러": core("머플러"),
	"넥타이": core("넥타이"), "벨트": core("벨트"), "모자": core("모자"), "장갑": core("장갑"),
	// Home
	"캔들": core("캔들"), "candle": core("캔들"), "디퓨저": core("디퓨저"), "무드등": core("무드등"),
	"담요": core("담요"), "blanket": core("담요"), "쿠션": core("쿠션"), "화분": core("화분"), "꽃": core("꽃다발"),
	"꽃다발": core("꽃다발"), "생활용품": core("생활용품"),
	// Hobbies
	"게임": core("게임"), "보드게임": core("보드게임"), "퍼즐": core("퍼즐"), "레고": core("레고"),
	"골프": core("골프용품"), "골프용품": core("골프용품"), "캠핑": core("캠핑용품"), "캠핑용품": core("캠핑용품"),
	"운동": core("스포츠용품"), "요가": core("요가매트"), "요가매트": core("요가매트"), "여행": core("여행용품"),
	"여행용품": core("여행용품"), "캐리어": core("캐리어"), "음악": core("오디오"), "오디오": core("오디오"),
	"사진": core("카메라"), "굿즈": core("굿즈"), "산책용품": core("산책용품"),
	// Food
	"초콜릿": core("초콜릿"), "chocolate": core("초콜릿"), "와인": core("와인"), "wine": core("와인"),
	"디저트": core("디저트"), "케이크": core("케이크"), "쿠키": core("쿠키"), "과일": core("과일선물세트"),
	"선물세트": core("선물세트"), "식품": core("식품"),

	// Modifiers
	"프리미엄": modifier("프리미엄"), "premium": modifier("프리미엄"), "고급": modifier("고급"), "고급스러운": modifier("고급"),
	"luxury": modifier("고급"), "럭셔리": modifier("고급"), "명품": modifier("명품"),
	"무선": modifier("무선"), "wireless": modifier("무선"), "블루투스": modifier("블루투스"), "bluetooth": modifier("블루투스"),
	"휴대용": modifier("휴대용"), "portable": modifier("휴대용"), "미니": modifier("미니"), "mini": modifier("미니"),
	"스마트": modifier("스마트"), "smart": modifier("스마트"), "전동": modifier("전동"), "자동": modifier("자동"),
	"가죽": modifier("가죽"), "leather": modifier("가죽"), "수제": modifier("수제"), "handmade": modifier("수제"),
	"유기농": modifier("유기농"), "organic": modifier("유기농"), "친환경": modifier("친환경"),
	"감성": modifier("감성"), "감성적인": modifier("감성"), "예쁜": modifier("예쁜"), "귀여운": modifier("귀여운"),
	"실용적인": modifier("실용적"), "실용적": modifier("실용적"), "세련된": modifier("세련된"), "모던": modifier("모던"),
	"빈티지": modifier("빈티지"), "vintage": modifier("빈티지"), "클래식": modifier("클래식"), "classic": modifier("클래식"),
	"여성용": modifier("여성용"), "남성용": modifier("남성용"), "커플": modifier("커플"), "기능성": modifier("기능성"),
	"대용량": modifier("대용량"), "고급형": modifier("고급"), "인기": modifier("인기"), "특별한": modifier("특별한"),

	// Generic filler
	"선물": generic, "gift": generic, "gifts": generic, "세트": generic, "set": generic, "용": generic,
	"위한": generic, "for": generic, "the": generic, "a": generic, "and": generic, "with": generic,
	"좋은": generic, "추천": generic, "아이템": generic, "item": generic, "상품": generic, "제품": generic,
}

// interestMapping maps recipient interests to catalog search terms.
var interestMapping = map[string]string{
	"독서": "책",
	"커피": "원두",
	"여행": "여행용품",
	"사진": "카메라",
	"운동": "스포츠용품",
	"요리": "주방용품",
	"음악": "오디오",
}

// categoryMapping maps intent categories to catalog search terms.
var categoryMapping = map[string]string{
	"전자제품":   "전자기기",
	"홈&리빙":   "생활용품",
	"도서":     "책",
	"식음료":    "식품",
	"프리미엄 선물": "선물세트",
}

// parentCategory broadens a canonical term one level up.
var parentCategory = map[string]string{
	"머그컵": "주방용품", "텀블러": "주방용품", "냄비": "주방용품", "프라이팬": "주방용품", "주방칼": "주방용품",
	"식기세트": "주방용품", "조리도구": "주방용품",
	"원두": "커피", "드립백": "커피", "핸드드립세트": "커피용품", "커피머신": "주방가전",
	"홍차": "차", "전통차": "차", "차세트": "차",
	"이어폰": "음향기기", "무선이어폰": "음향기기", "헤드폰": "음향기기", "스피커": "음향기기", "블루투스스피커": "음향기기",
	"오디오": "음향기기", "스마트워치": "웨어러블", "키보드": "컴퓨터주변기기", "마우스": "컴퓨터주변기기",
	"보조배터리": "휴대폰액세서리", "충전기": "휴대폰액세서리", "카메라": "디지털기기",
	"만년필": "문구", "다이어리": "문구", "노트": "문구", "필기구": "문구", "학용품": "문구",
	"향수": "뷰티", "립스틱": "화장품", "스킨케어": "화장품", "핸드크림": "화장품", "화장품": "뷰티",
	"마사지의자": "마사지기", "영양제": "건강식품", "홍삼": "건강식품", "건강기능식품": "건강식품",
	"지갑": "패션잡화", "가방": "패션잡화", "백팩": "가방", "벨트": "패션잡화", "넥타이": "패션잡화",
	"스카프": "패션잡화", "머플러": "패션잡화", "모자": "패션잡화", "장갑": "패션잡화",
	"목걸이": "주얼리", "귀걸이": "주얼리", "반지": "주얼리", "팔찌": "주얼리", "시계": "패션잡화",
	"캔들": "홈데코", "디퓨저": "홈데코", "무드등": "홈데코", "쿠션": "홈데코", "담요": "침구", "화분": "홈데코",
	"꽃다발": "꽃", "보드게임": "게임", "퍼즐": "취미", "레고": "장난감",
	"요가매트": "스포츠용품", "골프용품": "스포츠용품", "캠핑용품": "아웃도어", "캐리어": "여행용품",
	"초콜릿": "디저트", "쿠키": "디저트", "케이크": "디저트", "와인": "주류", "과일선물세트": "식품",
}

// relatedTerms lists synonyms used by rule-based synonym expansion.
var relatedTerms = map[string][]string{
	"주방용품":    {"키친웨어", "조리도구"},
	"머그컵":     {"컵", "머그"},
	"텀블러":     {"보온병", "스텐컵"},
	"원두":      {"커피", "드립백"},
	"차세트":     {"티세트", "티백"},
	"이어폰":     {"블루투스이어폰", "이어버드"},
	"무선이어폰":   {"블루투스이어폰", "이어버드"},
	"헤드폰":     {"헤드셋", "무선헤드폰"},
	"스피커":     {"블루투스스피커", "사운드바"},
	"스마트워치":   {"스마트밴드", "웨어러블"},
	"책":       {"도서", "베스트셀러"},
	"만년필":     {"고급펜", "필기구"},
	"화장품":     {"코스메틱", "뷰티세트"},
	"향수":      {"퍼퓸", "오드퍼퓸"},
	"마사지기":    {"안마기", "마사지건"},
	"건강식품":    {"영양제", "홍삼"},
	"지갑":      {"카드지갑", "반지갑"},
	"가방":      {"토트백", "숄더백"},
	"캔들":      {"향초", "디퓨저"},
	"꽃다발":     {"플라워박스", "꽃바구니"},
	"와인":      {"와인세트", "레드와인"},
	"초콜릿":     {"수제초콜릿", "초콜릿세트"},
	"카메라":     {"디지털카메라", "폴라로이드"},
	"여행용품":    {"파우치", "여행가방"},
	"스포츠용품":   {"운동용품", "헬스용품"},
	"오디오":     {"스피커", "턴테이블"},
	"골프용품":    {"골프공", "골프장갑"},
	"선물세트":    {"기프트세트", "선물박스"},
}

// Brand trust tiers. Keys are normalized.
var (
	premiumBrands = map[string]bool{
		"apple": true, "애플": true, "samsung": true, "삼성": true, "삼성전자": true, "lg": true, "엘지": true,
		"sony": true, "소니": true, "bose": true, "보스": true, "dyson": true, "다이슨": true,
		"chanel": true, "샤넬": true, "dior": true, "디올": true, "montblanc": true, "몽블랑": true,
		"le creuset": true, "르크루제": true, "nespresso": true, "네스프레소": true, "jo malone": true, "조말론": true,
	}
	trustedBrands = map[string]bool{
		"philips": true, "필립스": true, "panasonic": true, "파나소닉": true, "braun": true, "브라운": true,
		"jbl": true, "logitech": true, "로지텍": true, "xiaomi": true, "샤오미": true, "anker": true, "앤커": true,
		"zwilling": true, "휘슬러": true, "wmf": true, "락앤락": true, "스타벅스": true, "starbucks": true,
		"설화수": true, "이니스프리": true, "정관장": true, "나이키": true, "nike": true, "아디다스": true, "adidas": true,
	}
	recognizedBrands = map[string]bool{
		"코렐": true, "corelle": true, "해피콜": true, "쿠쿠": true, "cuckoo": true, "브리츠": true, "britz": true,
		"모나미": true, "라미": true, "lamy": true, "양키캔들": true, "yankee candle": true,
		"무인양품": true, "muji": true, "다이소": true, "이케아": true, "ikea": true, "한샘": true,
	}
)

// Seller trust tiers, analogous to brand tiers.
var (
	premiumSellers = map[string]bool{
		"네이버": true, "쿠팡": true, "롯데온": true, "신세계몰": true, "ssg.com": true, "현대hmall": true,
		"삼성전자 공식스토어": true, "애플 공식스토어": true, "lg전자 공식스토어": true,
	}
	trustedSellers = map[string]bool{
		"11번가": true, "g마켓": true, "옥션": true, "gs shop": true, "cj온스타일": true, "위메프": true,
		"티몬": true, "하이마트": true, "롯데하이마트": true, "교보문고": true, "yes24": true, "알라딘": true,
	}
	recognizedSellers = map[string]bool{
		"인터파크": true, "오늘의집": true, "무신사": true, "29cm": true, "w컨셉": true, "올리브영": true,
		"텐바이텐": true, "카카오톡 선물하기": true,
	}
)

// Title markers used by title quality scoring.
var (
	titleBoostMarkers = []string{
		"정품", "공식", "정식수입", "인기", "베스트", "best", "official", "authentic", "genuine", "선물포장", "국내정발",
	}
	titlePenaltyMarkers = []string{
		"중고", "리퍼", "반품", "전시상품", "스크래치", "파손", "하자", "b급", "주문제작", "used", "refurbished", "damaged",
	}
)
