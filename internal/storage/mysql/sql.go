package mysql

// Note: `rank` is reserved in MySQL 8, hence hotel_rank.
const upsertHotelsPrefix = "INSERT INTO hotels\n  (id, num, name, hotel_rank, address, total_score)\nVALUES "

const upsertHotelsOnDup = ` ON DUPLICATE KEY UPDATE
  num         = VALUES(num),
  name        = VALUES(name),
  hotel_rank  = VALUES(hotel_rank),
  address     = VALUES(address),
  total_score = VALUES(total_score),
  updated_at  = CURRENT_TIMESTAMP`

const insertReviewsPrefix = "INSERT INTO reviews\n  (hotel_id, title, body, review_new, sentiment, score, nationality, room_type, group_name, stay_details, travel_date)\nVALUES "

const deleteReviewsSQL = `DELETE FROM reviews WHERE hotel_id = ?`

const listHotelsSQL = `
SELECT id, num, name, hotel_rank, address, total_score
FROM hotels
ORDER BY num, id
`

// id order is insertion order, which the importer keeps per hotel.
const listReviewsSQL = `
SELECT hotel_id, title, body, review_new, sentiment, score, nationality, room_type, group_name, stay_details, travel_date
FROM reviews
ORDER BY id
`
