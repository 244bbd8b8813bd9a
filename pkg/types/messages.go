package types

// HTTP
//   POST /tables                 -> 201 { code }
//   GET  /tables/{code}          -> { code, version, round }
//   DELETE /tables/{code}        -> 204, table shut down and forgotten
//   POST /tables/{code}/roll     { positions?: number[] }
//                                   omitted: roll all five
//                                   []: roll nothing, still uses a roll
//   POST /tables/{code}/score    { category: string } -> { ..., category, score }
//   GET  /tables/{code}/history  -> { code, entries: Entry[] }
//   GET  /categories             -> { categories: string[] }
//
// Client -> Server (websocket, /ws?code=XXXXXX)
// Roll: {}
//
// Reroll:
//   positions: number[] // 0..4, the dice NOT held
//
// Score:
//   category: "ones" | "twos" | "threes" | "fours" | "fives" | "sixes" |
//             "pair" | "twoPairs" | "threeOfAKind" | "fourOfAKind" |
//             "smallStraight" | "largeStraight" | "fullHouse" |
//             "chance" | "yahtzee"

// Server -> Client
// StateSnapshot:
//   version: number
//   code: string
//   round:
//     phase: "fresh" | "inProgress"
//     dice: number[5] // 0 = not rolled this round
//     rolls_remaining: 0..3
//
// Error:
//   error: string
//   error_code: "no_rolls_remaining" | "no_dice_to_score" |
//               "invalid_position" | "unknown_category" |
//               "unsupported_command" | "bad_request"
//
// Entry (history):
//   id, table_code, category, dice, score, created_at
//   Entries are never totalled; keeping a scorecard is up to the client.
